// Package watershed implements a seeded watershed over a cost volume: labeled
// seed regions grow outward along minimum cumulative-cost paths until every
// reachable voxel is assigned, respecting barrier voxels.
package watershed

import (
	"container/heap"

	"lungsep/pkg/volume"
)

// Barrier marks a voxel the flood may never enter or assign.
const Barrier int8 = -1

type frontierItem struct {
	dist  float64
	idx   int
	label int8
	order int
}

// frontier is a min-heap ordered by cumulative path cost. Insertion order
// breaks ties so the flood is deterministic.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].order < f[j].order
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierItem)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// FromSeeds floods the cost volume from the seed volume and returns a label
// volume of the same length. Seed voxels keep their seed label, Barrier
// voxels stay Barrier and are impassable, and 0 voxels receive the label of
// the seed with the cheapest cumulative cost path to them (face-adjacent
// steps, each step paying the entered voxel's cost). Voxels unreachable from
// any seed remain 0.
func FromSeeds(cost *volume.Cost, seeds []int8) []int8 {
	out := make([]int8, len(seeds))
	copy(out, seeds)

	assigned := make([]bool, len(seeds))
	var f frontier
	order := 0

	expand := func(idx int, dist float64, label int8) {
		r, c, s := cost.Coords(idx)
		for _, n := range [6][3]int{
			{r - 1, c, s}, {r + 1, c, s},
			{r, c - 1, s}, {r, c + 1, s},
			{r, c, s - 1}, {r, c, s + 1},
		} {
			nr, nc, ns := n[0], n[1], n[2]
			if nr < 0 || nr >= cost.Rows ||
				nc < 0 || nc >= cost.Cols ||
				ns < 0 || ns >= cost.Slices {
				continue
			}
			nidx := cost.Index(nr, nc, ns)
			if assigned[nidx] || seeds[nidx] != 0 {
				continue
			}
			heap.Push(&f, frontierItem{
				dist:  dist + cost.Data[nidx],
				idx:   nidx,
				label: label,
				order: order,
			})
			order++
		}
	}

	// Seeds enter at zero accumulated cost; barriers never enter at all
	for idx, v := range seeds {
		if v > 0 {
			assigned[idx] = true
			expand(idx, 0, v)
		}
	}

	for f.Len() > 0 {
		item := heap.Pop(&f).(frontierItem)
		if assigned[item.idx] {
			continue
		}
		assigned[item.idx] = true
		out[item.idx] = item.label
		expand(item.idx, item.dist, item.label)
	}

	return out
}
