// Package lcs aligns two ordered sequences by longest common subsequence
// and pairs leftover deletions and insertions into candidate moves. Both
// diff engines build their array handling on it.
package lcs

// Alignment is the result of aligning two sequences. Matched pairs are the
// common subsequence; Deleted and Inserted are the indices left over on
// each side, ascending.
type Alignment struct {
	// Pairs holds (oldIndex, newIndex) for each matched element, ascending
	// on both sides.
	Pairs [][2]int
	// Deleted holds old indices with no match.
	Deleted []int
	// Inserted holds new indices with no match.
	Inserted []int
}

// Align computes an LCS alignment of old and new under eq. The matrix walk
// is the classic quadratic construction; ties prefer consuming from the old
// side so that results are deterministic for equal-length inputs.
func Align(old, new []any, eq func(a, b any) bool) Alignment {
	m, n := len(old), len(new)

	c := make([][]int, m+1)
	for i := range c {
		c[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if eq(old[i-1], new[j-1]) {
				c[i][j] = c[i-1][j-1] + 1
			} else if c[i-1][j] >= c[i][j-1] {
				c[i][j] = c[i-1][j]
			} else {
				c[i][j] = c[i][j-1]
			}
		}
	}

	// Backtrack from the bottom-right corner, collecting matches in
	// reverse.
	var rev [][2]int
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case eq(old[i-1], new[j-1]) && c[i][j] == c[i-1][j-1]+1:
			rev = append(rev, [2]int{i - 1, j - 1})
			i--
			j--
		case c[i-1][j] >= c[i][j-1]:
			i--
		default:
			j--
		}
	}

	al := Alignment{Pairs: make([][2]int, len(rev))}
	for k, p := range rev {
		al.Pairs[len(rev)-1-k] = p
	}

	matchedOld := make([]bool, m)
	matchedNew := make([]bool, n)
	for _, p := range al.Pairs {
		matchedOld[p[0]] = true
		matchedNew[p[1]] = true
	}
	for idx := 0; idx < m; idx++ {
		if !matchedOld[idx] {
			al.Deleted = append(al.Deleted, idx)
		}
	}
	for idx := 0; idx < n; idx++ {
		if !matchedNew[idx] {
			al.Inserted = append(al.Inserted, idx)
		}
	}
	return al
}

// Move pairs a deletion at From with an insertion of an equal value at To.
type Move struct {
	From int
	To   int
}

// PairMoves pairs deletions and insertions of equal values into moves.
// For each insertion in ascending destination order it takes the earliest
// unmatched deletion whose value compares equal: first fit, not optimal
// assignment, so duplicate values pair deterministically but not always
// "intuitively". Deletions and insertions that found no partner come back
// in remDel and remIns, still ascending.
func PairMoves(old, new []any, deleted, inserted []int, eq func(a, b any) bool) (moves []Move, remDel, remIns []int) {
	usedDel := make(map[int]bool, len(deleted))

	for _, to := range inserted {
		paired := false
		for _, from := range deleted {
			if usedDel[from] || from == to {
				continue
			}
			if eq(old[from], new[to]) {
				moves = append(moves, Move{From: from, To: to})
				usedDel[from] = true
				paired = true
				break
			}
		}
		if !paired {
			remIns = append(remIns, to)
		}
	}

	for _, from := range deleted {
		if !usedDel[from] {
			remDel = append(remDel, from)
		}
	}
	return moves, remDel, remIns
}
