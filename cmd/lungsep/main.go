package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"lungsep/pkg/config"
	"lungsep/pkg/separation"
	"lungsep/pkg/visualization"
	"lungsep/pkg/volume"
)

func main() {
	// Parse command line arguments
	lungsPath := flag.String("lungs", "", "Raw uint8 volume with the unclosed lung mask")
	tiersPath := flag.String("tiers", "", "Raw uint8 volume with the threshold confidence tiers")
	roiPath := flag.String("roi", "", "Raw float32 (little-endian) cost volume for the watershed")
	rows := flag.Int("rows", 0, "Number of rows in the input volumes")
	cols := flag.Int("cols", 0, "Number of columns in the input volumes")
	slices := flag.Int("slices", 0, "Number of slices in the input volumes")
	trachea := flag.String("trachea", "", "Optional carina locus as row,col,slice")
	outputPath := flag.String("output", "labels.raw", "Output path for the labeled uint8 volume")
	configPath := flag.String("config", "lungsep.yaml", "Configuration file path")
	exportSlices := flag.Bool("export-slices", false, "Export labeled coronal slices as JPEG images")
	slicesDir := flag.String("slices-dir", "", "Directory for exported slices (default from config)")
	flag.Parse()

	if *lungsPath == "" || *tiersPath == "" || *roiPath == "" ||
		*rows <= 0 || *cols <= 0 || *slices <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	grid := volume.Grid{Rows: *rows, Cols: *cols, Slices: *slices}

	lungs, err := readMask(*lungsPath, grid)
	if err != nil {
		log.Fatalf("Failed to read lung mask: %v", err)
	}
	tiers, err := readMask(*tiersPath, grid)
	if err != nil {
		log.Fatalf("Failed to read tier mask: %v", err)
	}
	roi, err := readCost(*roiPath, grid)
	if err != nil {
		log.Fatalf("Failed to read ROI volume: %v", err)
	}

	locus, err := parseLocus(*trachea)
	if err != nil {
		log.Fatalf("Failed to parse trachea locus: %v", err)
	}

	separator := &separation.Separator{
		Reporter: separation.NewConsoleReporter(cfg.Processing.Verbose),
		Workers:  cfg.Processing.NumCores,
	}

	fmt.Println("Starting left/right lung separation...")
	startTime := time.Now()
	labels, err := separator.Run(lungs, tiers, roi, locus)
	if err != nil {
		log.Fatalf("Separation failed: %v", err)
	}
	elapsed := time.Since(startTime)

	if err := os.WriteFile(*outputPath, labels.Data, 0644); err != nil {
		log.Fatalf("Failed to write labeled volume: %v", err)
	}

	metrics := separation.MeasureCoverage(labels, lungs)
	fmt.Printf("\nSeparation completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Labeled volume saved to: %s\n\n", *outputPath)

	fmt.Printf("Coverage metrics:\n")
	fmt.Printf("=================\n")
	fmt.Printf("Right lung voxels: %d\n", metrics.RightVoxels)
	fmt.Printf("Left lung voxels: %d\n", metrics.LeftVoxels)
	fmt.Printf("Unassigned interior voxels: %d (%.2f%%)\n",
		metrics.UnassignedInterior, metrics.UnassignedFraction*100)
	fmt.Printf("Mean per-slice coverage: %.2f%%\n", metrics.MeanSliceCoverage*100)

	if *exportSlices || cfg.Export.SaveLabeledSlices {
		dir := *slicesDir
		if dir == "" {
			dir = cfg.Export.SlicesDir
		}
		fmt.Printf("\nExporting labeled coronal slices to: %s\n", dir)
		viewer := visualization.NewViewer(labels)
		if err := viewer.SaveSliceSequence("coronal", dir); err != nil {
			log.Printf("Warning: Failed to export labeled slices: %v", err)
		}
	}
}

// readMask loads a raw uint8 volume and validates its size against the grid.
func readMask(path string, grid volume.Grid) (*volume.Mask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != grid.NumVoxels() {
		return nil, fmt.Errorf("%s holds %d voxels, expected %d for %dx%dx%d",
			path, len(data), grid.NumVoxels(), grid.Rows, grid.Cols, grid.Slices)
	}
	return &volume.Mask{Grid: grid, Data: data}, nil
}

// readCost loads a raw little-endian float32 volume into a cost volume.
func readCost(path string, grid volume.Grid) (*volume.Cost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != 4*grid.NumVoxels() {
		return nil, fmt.Errorf("%s holds %d bytes, expected %d for %dx%dx%d float32 voxels",
			path, len(data), 4*grid.NumVoxels(), grid.Rows, grid.Cols, grid.Slices)
	}

	cost := volume.NewCost(grid)
	for i := range cost.Data {
		bits := binary.LittleEndian.Uint32(data[4*i:])
		cost.Data[i] = float64(math.Float32frombits(bits))
	}
	return cost, nil
}

// parseLocus parses an optional "row,col,slice" carina coordinate.
func parseLocus(s string) (*volume.TracheaLocus, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected row,col,slice, got %q", s)
	}
	coords := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		coords[i] = v
	}
	return &volume.TracheaLocus{Row: coords[0], Col: coords[1], Slice: coords[2]}, nil
}
