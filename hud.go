package posegrid

import (
	"fmt"
	"math"
	"strings"

	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	hudColor  = [4]float32{0.1, 0.1, 0.1, 1}
	hudOrigin = [2]float32{12, 12}
)

const hudScale = 1

// hudItems lists the overlay text for a frame. Position and heading are printed in
// the service's own frame so they can be compared with what the tracker reports.
func (app *App) hudItems(pose tracking.Pose) []core.TextItem {
	var sb strings.Builder

	service := core.InvertPosition(app.camera.Position().Sub(core.HeightOffset))
	fmt.Fprintf(&sb, "t=%.3fs %s\n", pose.Timestamp, pose.Status)
	fmt.Fprintf(&sb, "pos %s\n", formatVec3(service))
	// Viewing direction: camera -Z taken through the world transform.
	forward := app.camera.Transform.ObjectToWorld().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	fmt.Fprintf(&sb, "fwd %s\n", formatVec3(core.InvertPosition(forward)))
	fmt.Fprintf(&sb, "poses %d  %dx%d\n", app.poses.Received(), app.viewport.Width, app.viewport.Height)
	if app.Logger().DebugEnabled() {
		sb.WriteString(app.profiler.GetStatsString())
	} else {
		fmt.Fprintf(&sb, "FPS: %.1f\n", app.profiler.FPS)
	}

	return []core.TextItem{{
		Text:     strings.TrimRight(sb.String(), "\n"),
		Position: hudOrigin,
		Scale:    hudScale,
		Color:    hudColor,
	}}
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("%+.2f %+.2f %+.2f", hudFloat(v.X()), hudFloat(v.Y()), hudFloat(v.Z()))
}

// hudFloat rounds to the printed precision and drops the sign of zero.
func hudFloat(f float32) float64 {
	r := math.Round(float64(f)*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
