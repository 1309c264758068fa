package buffer

import "github.com/peco/scrollback/line"

const minRingSize = 16

func (r *ring) Len() int {
	return r.size
}

// At returns the i-th line, counting from the oldest
func (r *ring) At(i int) line.Line {
	return r.buf[(r.head+i)%len(r.buf)]
}

// Back returns the newest line, or nil
func (r *ring) Back() line.Line {
	if r.size == 0 {
		return nil
	}
	return r.At(r.size - 1)
}

func (r *ring) PushBack(l line.Line) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = l
	r.size++
}

func (r *ring) PushFront(l line.Line) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.head = (r.head - 1 + len(r.buf)) % len(r.buf)
	r.buf[r.head] = l
	r.size++
}

// PopFront removes and returns the oldest line, or nil
func (r *ring) PopFront() line.Line {
	if r.size == 0 {
		return nil
	}
	l := r.buf[r.head]
	// let go of the reference so the line can be collected
	r.buf[r.head] = nil
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return l
}

// Reset drops every line, and the backing storage with them
func (r *ring) Reset() {
	r.buf = nil
	r.head = 0
	r.size = 0
}

// appendTo appends the lines, oldest first, to dst
func (r *ring) appendTo(dst []line.Line) []line.Line {
	if r.size == 0 {
		return dst
	}
	end := r.head + r.size
	if end <= len(r.buf) {
		return append(dst, r.buf[r.head:end]...)
	}
	dst = append(dst, r.buf[r.head:]...)
	return append(dst, r.buf[:end-len(r.buf)]...)
}

func (r *ring) grow() {
	n := 2 * len(r.buf)
	if n < minRingSize {
		n = minRingSize
	}
	buf := r.appendTo(make([]line.Line, 0, n))
	r.buf = buf[:n]
	r.head = 0
}
