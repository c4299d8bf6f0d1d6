// Package workgroup emulates fixed-size GPU workgroups on goroutines. Lanes
// communicate through slots they exclusively own between barriers: each slot
// has one producer lane, a barrier, then any number of consumer lanes.
package workgroup

import "sync"

// LaneCount is the workgroup width of every pipeline stage.
const LaneCount = 32

// Barrier is a reusable synchronization point for a fixed number of lanes.
// Wait blocks until every lane has arrived, then releases them all.
type Barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	n     int
	count int
	gen   uint64
}

// NewBarrier creates a barrier for n lanes.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all lanes of the current generation have arrived.
func (b *Barrier) Wait() {
	b.mu.Lock()
	gen := b.gen
	b.count++
	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
	} else {
		for gen == b.gen {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}

// Dispatch runs groups sequentially, each as LaneCount concurrent lanes.
// fn receives the group index, the lane index and the group's barrier.
// Dispatch returns when every lane of every group has finished.
func Dispatch(groups int, fn func(group, lane int, b *Barrier)) {
	for g := 0; g < groups; g++ {
		b := NewBarrier(LaneCount)
		var wg sync.WaitGroup
		wg.Add(LaneCount)
		for lane := 0; lane < LaneCount; lane++ {
			go func(lane int) {
				defer wg.Done()
				fn(g, lane, b)
			}(lane)
		}
		wg.Wait()
	}
}
