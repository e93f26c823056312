package cegis

import (
	"sort"
)

// Canonicalize removes statements that do not contribute to the result of a
// raw position array and renumbers the rest densely.
//
// Live statements are those reachable from the statement at the last
// executed position. They receive positions numInputs, numInputs+1, ... in
// their original order, followed by the dead statements. Argument positions
// are rewritten accordingly; input references are unchanged. Returns the new
// array and the number of live statements.
func Canonicalize(lib *Library, numInputs, numStatements int, raw []int) ([]int, int) {
	n := lib.Len()
	offsets := lib.ArgOffsets()

	// Find the statement that writes the result.
	live := make([]bool, n)
	var queue []int
	for i := 0; i < n; i++ {
		if raw[i] == numInputs+numStatements-1 {
			queue = append(queue, i)
			break
		}
	}

	// Mark every statement whose position is read by a live statement.
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if live[cur] {
			continue
		}
		live[cur] = true

		for j := offsets[cur]; j < offsets[cur+1]; j++ {
			for i := 0; i < n; i++ {
				if raw[i] == raw[j] {
					if !live[i] {
						queue = append(queue, i)
					}
					break
				}
			}
		}
	}

	// Order live statements before dead ones, each group by original position.
	stmts := make([]int, n)
	for i := range stmts {
		stmts[i] = i
	}
	sort.SliceStable(stmts, func(a, b int) bool {
		sa, sb := stmts[a], stmts[b]
		if live[sa] != live[sb] {
			return live[sa]
		}
		return raw[sa] < raw[sb]
	})

	other := make([]int, len(raw))
	rewrite := make(map[int]int, n)
	var numLive int
	for i, stmt := range stmts {
		other[stmt] = numInputs + i
		rewrite[raw[stmt]] = numInputs + i
		if live[stmt] {
			numLive++
		}
	}

	for j := n; j < len(raw); j++ {
		if pos, ok := rewrite[raw[j]]; ok && raw[j] >= numInputs {
			other[j] = pos
		} else {
			other[j] = raw[j]
		}
	}
	return other, numLive
}
