package libutil

import (
	"golang.org/x/exp/constraints"
)

// Ring is a fixed capacity buffer that overwrites its oldest sample.
type Ring[T constraints.Float] struct {
	data  []T
	next  int
	count int
}

func NewRing[T constraints.Float](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{data: make([]T, capacity)}
}

func (r *Ring[T]) Push(v T) {
	r.data[r.next] = v
	r.next = (r.next + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

func (r *Ring[T]) Len() int {
	return r.count
}

func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Values returns the samples oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, 0, r.count)
	start := (r.next - r.count + len(r.data)) % len(r.data)
	for i := 0; i < r.count; i++ {
		out = append(out, r.data[(start+i)%len(r.data)])
	}
	return out
}

// Last returns the most recent sample, 0 when empty.
func (r *Ring[T]) Last() T {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.next-1+len(r.data))%len(r.data)]
}

// Stats returns min, max and average of the stored samples, all 0 when empty.
func (r *Ring[T]) Stats() (min, max, avg T) {
	if r.count == 0 {
		return
	}
	samples := r.data[:r.count]
	min, max = samples[0], samples[0]
	var sum float64
	for _, v := range samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += float64(v)
	}
	return min, max, T(sum / float64(r.count))
}
