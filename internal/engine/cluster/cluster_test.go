package cluster

import (
	"testing"

	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/workgroup"
)

func TestSelectKeepsAllWithoutPredicate(t *testing.T) {
	draw := &resources.DrawCommand{TaskCount: 2, FirstTask: 0}
	batches := Select(draw, nil)

	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	for g, b := range batches {
		if b.Count != workgroup.LaneCount {
			t.Errorf("group %d count = %d, want %d", g, b.Count, workgroup.LaneCount)
		}
		for lane := 0; lane < int(b.Count); lane++ {
			want := uint32(g*workgroup.LaneCount + lane)
			if b.Indices[lane] != want {
				t.Errorf("group %d slot %d = %d, want %d", g, lane, b.Indices[lane], want)
			}
		}
	}
}

func TestSelectHonorsFirstTask(t *testing.T) {
	draw := &resources.DrawCommand{TaskCount: 1, FirstTask: 3}
	batches := Select(draw, nil)

	if got := batches[0].Indices[0]; got != 3*workgroup.LaneCount {
		t.Errorf("first index = %d, want %d", got, 3*workgroup.LaneCount)
	}
}

func TestSelectCompactsSurvivors(t *testing.T) {
	draw := &resources.DrawCommand{TaskCount: 1}
	even := func(idx uint32) bool { return idx%2 == 0 }
	batches := Select(draw, even)

	b := batches[0]
	if b.Count != workgroup.LaneCount/2 {
		t.Fatalf("count = %d, want %d", b.Count, workgroup.LaneCount/2)
	}
	// Survivors stay in lane order.
	for i := 0; i < int(b.Count); i++ {
		if b.Indices[i] != uint32(i*2) {
			t.Errorf("slot %d = %d, want %d", i, b.Indices[i], i*2)
		}
	}
}

func TestSelectAllRejected(t *testing.T) {
	draw := &resources.DrawCommand{TaskCount: 1}
	batches := Select(draw, func(uint32) bool { return false })
	if batches[0].Count != 0 {
		t.Errorf("count = %d, want 0", batches[0].Count)
	}
}
