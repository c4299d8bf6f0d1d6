// Package cluster implements the task-level cluster selection stage: each
// 32-lane workgroup claims a window of candidate meshlet indices, optionally
// filters them through a visibility predicate, and publishes a compacted,
// bounded batch for the expansion stage.
package cluster

import (
	"github.com/Faultbox/lumen/internal/engine/frame"
	"github.com/Faultbox/lumen/internal/engine/resources"
	"github.com/Faultbox/lumen/internal/engine/workgroup"
	"github.com/Faultbox/lumen/pkg/math"
)

// Predicate decides whether a meshlet survives selection. A nil predicate
// keeps every candidate.
type Predicate func(meshletIndex uint32) bool

// Batch is one workgroup's output: at most LaneCount surviving meshlet
// indices.
type Batch struct {
	Indices [workgroup.LaneCount]uint32
	Count   uint32
}

// Select runs the selection stage for one draw command. Each task workgroup
// g covers candidates g*32+lane relative to the draw's first task window;
// lane writes go to distinct slots of the shared list, and lane 0 publishes
// the compacted count after the barrier. The caller guarantees the draw's
// task count matches its meshlet range.
func Select(draw *resources.DrawCommand, pred Predicate) []Batch {
	batches := make([]Batch, draw.TaskCount)

	workgroup.Dispatch(int(draw.TaskCount), func(group, lane int, b *workgroup.Barrier) {
		batch := &batches[group]

		meshletIndex := (draw.FirstTask+uint32(group))*workgroup.LaneCount + uint32(lane)

		// Produce phase: every lane owns exactly one slot. A rejected lane
		// parks the sentinel for the compaction below.
		if pred == nil || pred(meshletIndex) {
			batch.Indices[lane] = meshletIndex
		} else {
			batch.Indices[lane] = rejected
		}

		b.Wait()

		// Consume phase: lane 0 compacts survivors in lane order and
		// publishes the final count.
		if lane == 0 {
			n := uint32(0)
			for _, idx := range batch.Indices {
				if idx != rejected {
					batch.Indices[n] = idx
					n++
				}
			}
			batch.Count = n
		}
	})

	return batches
}

const rejected = ^uint32(0)

// FrustumConePredicate builds the stock visibility predicate from the frame
// constants: bounding-sphere frustum test plus backface cone rejection. It
// is wired only when the frame enables meshlet frustum culling; occlusion
// culling stays a host concern.
func FrustumConePredicate(fc *frame.Constants, tables *resources.Tables) Predicate {
	if !fc.FrustumCullMeshlets {
		return nil
	}
	return func(meshletIndex uint32) bool {
		// Padded lanes of the final task workgroup can point past the
		// meshlet table.
		if meshletIndex >= uint32(len(tables.Meshlets)) {
			return false
		}
		m := &tables.Meshlets[meshletIndex]
		inst := tables.InstanceForMeshlet(m)

		// Radius is taken as baked; instance transforms are assumed
		// uniform-scale for culling purposes.
		center := inst.Model.TransformPoint(m.Center)
		if !frame.SphereInFrustum(&fc.FrustumPlanes, center, m.Radius) {
			return false
		}

		// Cone test: reject when every triangle in the cluster faces away.
		axis := inst.Model.TransformDirection(m.ConeAxisVec())
		if axis == (math.Vec3{}) {
			return true
		}
		view := center.Sub(fc.EyePosition).Normalize()
		return view.Dot(axis.Normalize()) < m.ConeCutoffValue()
	}
}
