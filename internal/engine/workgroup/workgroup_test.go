package workgroup

import (
	"sync/atomic"
	"testing"
)

func TestBarrierPublishesLaneWrites(t *testing.T) {
	// Every lane writes its slot, crosses the barrier, then reads all slots.
	var shared [LaneCount]int32
	var failures atomic.Int32

	Dispatch(4, func(group, lane int, b *Barrier) {
		shared[lane] = int32(group*LaneCount + lane)
		b.Wait()
		for i := range shared {
			if shared[i] != int32(group*LaneCount+i) {
				failures.Add(1)
			}
		}
	})

	if failures.Load() != 0 {
		t.Errorf("%d stale reads after barrier", failures.Load())
	}
}

func TestBarrierReusableAcrossGenerations(t *testing.T) {
	b := NewBarrier(LaneCount)
	var counter atomic.Int32

	Dispatch(1, func(_, _ int, _ *Barrier) {
		for i := 0; i < 10; i++ {
			counter.Add(1)
			b.Wait()
		}
	})

	if got := counter.Load(); got != 10*LaneCount {
		t.Errorf("counter = %d, want %d", got, 10*LaneCount)
	}
}

func TestDispatchRunsEveryLane(t *testing.T) {
	var hits [3][LaneCount]atomic.Int32
	Dispatch(3, func(group, lane int, _ *Barrier) {
		hits[group][lane].Add(1)
	})
	for g := range hits {
		for l := range hits[g] {
			if hits[g][l].Load() != 1 {
				t.Fatalf("group %d lane %d ran %d times", g, l, hits[g][l].Load())
			}
		}
	}
}
