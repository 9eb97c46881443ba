package writers

import "io"

// treeLayout places a bottom-up tree of fixed fan-out so that the root is
// written first and every level follows the one above it. Both bigWig trees
// (chromosome B+ tree and R-tree index) use it.
type treeLayout struct {
	n      int
	block  int
	levels [][]int  // item counts per node; levels[0] are leaves
	offs   []uint64 // offset of the first node of each level
	sizes  []int    // bytes per item of each level
}

func newTreeLayout(n, block int, base uint64, leafItem, nodeItem int) treeLayout {
	t := treeLayout{n: n, block: block}
	count := n
	for {
		var lvl []int
		for i := 0; i < count; i += block {
			lvl = append(lvl, min(block, count-i))
		}
		if len(lvl) == 0 {
			lvl = []int{0}
		}
		t.levels = append(t.levels, lvl)
		if len(lvl) == 1 {
			break
		}
		count = len(lvl)
	}
	t.offs = make([]uint64, len(t.levels))
	t.sizes = make([]int, len(t.levels))
	off := base
	for l := len(t.levels) - 1; l >= 0; l-- {
		t.sizes[l] = nodeItem
		if l == 0 {
			t.sizes[l] = leafItem
		}
		t.offs[l] = off
		for _, c := range t.levels[l] {
			off += uint64(4 + c*t.sizes[l])
		}
	}
	return t
}

// nodeOffset is where node idx of level starts. Every node before the last
// one on a level is full.
func (t treeLayout) nodeOffset(level, idx int) uint64 {
	return t.offs[level] + uint64(idx*(4+t.block*t.sizes[level]))
}

// leafRange is the first and last leaf item under child idx of a node on
// level (level >= 1), i.e. under node idx of level-1.
func (t treeLayout) leafRange(level, idx int) (int, int) {
	per := 1
	for i := 0; i < level; i++ {
		per *= t.block
	}
	first := idx * per
	return first, min(first+per, t.n) - 1
}

// write emits every node, root first. item appends the encoding of item k
// of a node on level: a leaf item index when level == 0, otherwise the
// index of the child node on level-1.
func (t treeLayout) write(w io.Writer, item func(b []byte, level, idx int) []byte) error {
	var b []byte
	for l := len(t.levels) - 1; l >= 0; l-- {
		for j, cnt := range t.levels[l] {
			b = b[:0]
			leaf := byte(0)
			if l == 0 {
				leaf = 1
			}
			b = append(b, leaf, 0)
			b = le.AppendUint16(b, uint16(cnt))
			for k := 0; k < cnt; k++ {
				b = item(b, l, j*t.block+k)
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}
	return nil
}
