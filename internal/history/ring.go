// Package history keeps the bounded time series the dashboard charts.
//
// A Ring is a fixed-capacity FIFO of points. A Set bundles the five series
// the sampler maintains (CPU, memory, GPU, network down, network up). Neither
// type is synchronized: the sampler goroutine owns them and hands copies to
// the snapshot store.
package history

import "time"

// DefaultCapacity is the number of points retained per series.
const DefaultCapacity = 60

// Point is one observation. Elapsed is seconds since the sampler started and
// is what charts order by; Time is the wall-clock collection time.
type Point struct {
	Time    time.Time `json:"time" yaml:"time"`
	Elapsed float64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Value   float64   `json:"value" yaml:"value"`
}

// Ring is a fixed-size circular buffer of points.
type Ring struct {
	data  []Point
	head  int
	count int
	size  int
}

// NewRing creates a ring holding at most capacity points.
// A non-positive capacity falls back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		data: make([]Point, capacity),
		size: capacity,
	}
}

// Push appends p, evicting the oldest point when the ring is full.
func (r *Ring) Push(p Point) {
	r.data[r.head] = p
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Len returns the number of stored points.
func (r *Ring) Len() int {
	return r.count
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return r.size
}

// Clear drops every point. Capacity is unchanged.
func (r *Ring) Clear() {
	r.head = 0
	r.count = 0
	for i := range r.data {
		r.data[i] = Point{}
	}
}

// Points returns a copy of the stored points, oldest first.
func (r *Ring) Points() []Point {
	return r.last(r.count)
}

// Values returns the stored values, oldest first.
func (r *Ring) Values() []float64 {
	return Values(r.Points())
}

// Last returns the newest point, or false when the ring is empty.
func (r *Ring) Last() (Point, bool) {
	if r.count == 0 {
		return Point{}, false
	}
	return r.data[(r.head-1+r.size)%r.size], true
}

// last returns the newest count points in chronological order.
func (r *Ring) last(count int) []Point {
	if count > r.count {
		count = r.count
	}
	result := make([]Point, count)
	if count == 0 {
		return result
	}

	// head is the next write slot, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}

// Values extracts the values of points, preserving order.
func Values(points []Point) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
