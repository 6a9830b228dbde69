package physics

import "gonum.org/v1/gonum/spatial/r2"

// TrailCapacity is the number of recent positions kept per body.
const TrailCapacity = 400

// Trail is a fixed-capacity FIFO of positions. Once full, each Push drops
// the oldest point.
type Trail struct {
	buf   []r2.Vec
	start int
	n     int
}

func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]r2.Vec, capacity)}
}

func (t *Trail) Push(p r2.Vec) {
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = p
		t.n++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % len(t.buf)
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th point, counting from the oldest.
func (t *Trail) At(i int) r2.Vec {
	return t.buf[(t.start+i)%len(t.buf)]
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []r2.Vec {
	out := make([]r2.Vec, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}
