package evaluate

import "sort"

// Ratio returns the gestalt pattern matching similarity of a and b over
// code points: 2*M/T where M is the number of matched runes and T the total
// rune count. Two empty strings score 1.
//
// The matching procedure follows difflib.SequenceMatcher with no junk
// function: b is indexed, elements that make up more than 1% of a b of 200
// or more runes are excluded from seeding matches, and the longest block is
// chosen greedily with earliest-in-a, then earliest-in-b tie breaking.
// The score is not symmetric in general.
func Ratio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1
	}
	m := newMatcher(ar, br)
	matched := 0
	for _, blk := range m.matchingBlocks() {
		matched += blk.size
	}
	return 2 * float64(matched) / float64(total)
}

type block struct {
	a, b, size int
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

const autoJunkMinLen = 200

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	if n := len(b); n >= autoJunkMinLen {
		limit := n/100 + 1
		for r, idx := range b2j {
			if len(idx) > limit {
				delete(b2j, r)
			}
		}
	}
	return &matcher{a: a, b: b, b2j: b2j}
}

// longestMatch finds the longest matching block in a[alo:ahi] and b[blo:bhi].
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) block {
	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	// Popular elements never seed a match but may still extend one.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}
	return block{a: besti, b: bestj, size: bestsize}
}

func (m *matcher) matchingBlocks() []block {
	var blocks []block
	queue := [][4]int{{0, len(m.a), 0, len(m.b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		blk := m.longestMatch(alo, ahi, blo, bhi)
		if blk.size == 0 {
			continue
		}
		blocks = append(blocks, blk)
		if alo < blk.a && blo < blk.b {
			queue = append(queue, [4]int{alo, blk.a, blo, blk.b})
		}
		if blk.a+blk.size < ahi && blk.b+blk.size < bhi {
			queue = append(queue, [4]int{blk.a + blk.size, ahi, blk.b + blk.size, bhi})
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].a != blocks[j].a {
			return blocks[i].a < blocks[j].a
		}
		return blocks[i].b < blocks[j].b
	})
	return blocks
}
