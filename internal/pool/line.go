// Package pool recycles the slices used to carry pages of history
package pool

import (
	"sync"

	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/line"
)

var pageBufPool = sync.Pool{
	New: func() any {
		return make([]line.Line, 0, buffer.DefaultLineIncrement)
	},
}

// ReleasePageBuf returns a page to the pool. The caller must not
// touch l afterwards
func ReleasePageBuf(l []line.Line) {
	if l == nil {
		return
	}
	clear(l)
	l = l[0:0]
	pageBufPool.Put(l) //nolint:staticcheck // SA6002: slices are small headers here
}

// GetPageBuf returns an empty page with room for at least n lines
func GetPageBuf(n int) []line.Line {
	l, _ := pageBufPool.Get().([]line.Line)
	if cap(l) < n {
		l = make([]line.Line, 0, n)
	}
	return l
}
