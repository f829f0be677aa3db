package accountant

import (
	"github.com/specialistvlad/dpcheck/internal/analysis"
)

// compose groups mechanisms with overlapping ancestry, sums costs within a
// group with compensated summation and takes the maximum across groups. Groups are ordered by their
// first mechanism.
func compose(usages []MechanismUsage) (analysis.Usage, [][]string) {
	parent := make([]int, len(usages))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri == rj {
			return
		}
		if ri < rj {
			parent[rj] = ri
		} else {
			parent[ri] = rj
		}
	}

	owner := make(map[string]int)
	for i, u := range usages {
		for _, key := range u.Ancestry {
			if j, ok := owner[key]; ok {
				union(i, j)
			} else {
				owner[key] = i
			}
		}
	}

	var (
		order  []int
		costs  = make(map[int][]analysis.Usage)
		groups = make(map[int][]string)
	)
	for i, u := range usages {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		costs[root] = append(costs[root], u.Usage)
		groups[root] = append(groups[root], u.Node)
	}

	var total analysis.Usage
	out := make([][]string, 0, len(order))
	for _, root := range order {
		total = total.Max(analysis.Sum(costs[root]))
		out = append(out, groups[root])
	}
	return total, out
}
