package posegrid

import (
	"sync/atomic"

	"github.com/gekko3d/posegrid/tracking"
)

// PoseSnapshotContainer hands the newest pose from the tracking goroutine to the
// render goroutine. A whole sample is swapped in at once, so a reader never sees
// the position of one sample with the orientation of another.
type PoseSnapshotContainer struct {
	latest   atomic.Pointer[tracking.Pose]
	received atomic.Uint64
}

func (c *PoseSnapshotContainer) Update(p *tracking.Pose) {
	c.latest.Store(p)
	c.received.Add(1)
}

// Get returns nil until the first pose arrives.
func (c *PoseSnapshotContainer) Get() *tracking.Pose {
	return c.latest.Load()
}

func (c *PoseSnapshotContainer) Reset() {
	c.latest.Store(nil)
}

// Received counts poses published since the container was created.
func (c *PoseSnapshotContainer) Received() uint64 {
	return c.received.Load()
}

// OnPoseAvailable is the tracking callback. It runs on the service's goroutine,
// possibly while a frame renders, and only publishes the sample.
func (app *App) OnPoseAvailable(pose tracking.Pose) {
	app.poses.Update(&pose)
}
