package posegrid

import (
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)
	assert.Same(t, resource1, app.resources[reflect.TypeOf(MockResource1{})])

	resource2 := &MockResource2{name: "Resource2"}
	app.addResources(resource2)
	assert.Len(t, app.resources, 2)

	assert.PanicsWithValue(t, "*posegrid.MockResource1 is already in resources", func() {
		app.addResources(&MockResource1{name: "again"})
	})
}

func TestSetupGraphicsRejectsZeroHeight(t *testing.T) {
	app, backend, logger := newTestApp()

	assert.False(t, app.SetupGraphics(640, 0))
	assert.Equal(t, Uninitialized, app.State())
	assert.Nil(t, app.Camera())
	assert.Empty(t, backend.resizes)
	assert.Empty(t, backend.grids)
	assert.Contains(t, logger.err.String(), "640x0")
}

func TestSetupGraphicsFailureKeepsPreviousSetup(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))
	cam := app.Camera()
	grid := backend.lastGrid()

	assert.False(t, app.SetupGraphics(0, 480))
	assert.False(t, app.SetupGraphics(-5, 480))

	backend.gridErr = errBackend
	assert.False(t, app.SetupGraphics(1024, 768))

	assert.Same(t, cam, app.Camera())
	assert.False(t, grid.released)
	assert.Equal(t, Viewport{Width: 800, Height: 480}, app.Viewport())
	assert.Equal(t, GraphicsReady, app.State())
}

func TestSetupGraphicsFailureKeepsSurfaceSize(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))

	backend.gridErr = errBackend
	assert.False(t, app.SetupGraphics(1024, 768))
	require.NotEmpty(t, backend.resizes)
	assert.Equal(t, app.Viewport(), backend.resizes[len(backend.resizes)-1])

	backend.gridErr = nil
	backend.resizeErr = errBackend
	assert.False(t, app.SetupGraphics(640, 360))
	assert.True(t, backend.lastGrid().released, "grid created for a failed resize is released")
	assert.Len(t, backend.grids, 2)
	assert.False(t, backend.grids[0].released)
	assert.Equal(t, Viewport{Width: 800, Height: 480}, app.Viewport())

	backend.resizeErr = nil
	require.True(t, app.SetupGraphics(1024, 768))
	assert.Equal(t, app.Viewport(), backend.resizes[len(backend.resizes)-1])
	assert.True(t, backend.grids[0].released)
}

func TestSetupGraphicsSetsAspect(t *testing.T) {
	app, backend, _ := newTestApp()

	require.True(t, app.SetupGraphics(800, 480))
	assert.Equal(t, GraphicsReady, app.State())
	assert.Equal(t, []Viewport{{Width: 800, Height: 480}}, backend.resizes)

	proj := app.Camera().GetProjectionMatrix()
	assert.InDelta(t, 800.0/480.0, core.AspectFromProjection(proj), 1e-5)
}

func TestSetupGraphicsUsesConfiguredGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.HalfExtent = 2
	cfg.Grid.Spacing = 1
	cfg.Grid.Color = "red"
	app, backend, _ := newTestApp(cfg)

	require.True(t, app.SetupGraphics(100, 100))
	require.Len(t, backend.meshes, 1)
	assert.Equal(t, 10, backend.meshes[0].LineCount())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, backend.colors[0])
}

func TestResetupReleasesOldGrid(t *testing.T) {
	app, backend, _ := newTestApp()

	require.True(t, app.SetupGraphics(800, 480))
	first := backend.lastGrid()
	require.True(t, app.RenderFrame())

	require.True(t, app.SetupGraphics(480, 800))
	assert.True(t, first.released)
	assert.NotSame(t, first, backend.lastGrid())
	assert.Equal(t, GraphicsReady, app.State())
	assert.InDelta(t, 480.0/800.0, core.AspectFromProjection(app.Camera().GetProjectionMatrix()), 1e-5)
}

func TestRenderFrameAppliesConvertedPose(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))

	app.OnPoseAvailable(tracking.Pose{
		Status:      tracking.PoseValid,
		Translation: [3]float64{1, 2, 3},
		Orientation: [4]float64{0, 0, 0, 1},
	})
	require.True(t, app.RenderFrame())

	want := core.ConvertPosition(mgl32.Vec3{1, 2, 3}).Add(core.HeightOffset)
	assert.True(t, app.Camera().Position().ApproxEqual(want), "got %v want %v", app.Camera().Position(), want)
	assert.True(t, app.Camera().Rotation().ApproxEqual(mgl32.QuatIdent()))

	grid := backend.lastGrid()
	require.Equal(t, 1, grid.renders)
	assert.Equal(t, app.Camera().GetViewMatrix(), grid.views[0])
	assert.Equal(t, app.Camera().GetProjectionMatrix(), grid.projections[0])
	assert.Equal(t, 1, backend.begins)
	assert.Equal(t, 1, backend.ends)
	assert.Equal(t, Rendering, app.State())
}

func TestRenderFrameUsesLatestPose(t *testing.T) {
	app, _, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))

	app.OnPoseAvailable(tracking.Pose{Translation: [3]float64{1, 0, 0}, Orientation: [4]float64{0, 0, 0, 1}})
	app.OnPoseAvailable(tracking.Pose{Translation: [3]float64{0, 5, 0}, Orientation: [4]float64{0, 0, 0, 1}})
	require.True(t, app.RenderFrame())

	want := core.ConvertPosition(mgl32.Vec3{0, 5, 0}).Add(core.HeightOffset)
	assert.True(t, app.Camera().Position().ApproxEqual(want))
}

func TestRenderFrameWithoutPoseUsesIdentity(t *testing.T) {
	app, _, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))
	require.True(t, app.RenderFrame())

	assert.True(t, app.Camera().Position().ApproxEqual(core.HeightOffset))
	assert.True(t, app.Camera().Rotation().ApproxEqual(mgl32.QuatIdent()))
}

func TestRenderFrameSameSnapshotIsIdempotent(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))
	app.OnPoseAvailable(tracking.Pose{Translation: [3]float64{1, 2, 3}, Orientation: [4]float64{0, 0, 0.6, 0.8}})

	require.True(t, app.RenderFrame())
	require.True(t, app.RenderFrame())

	grid := backend.lastGrid()
	require.Equal(t, 2, grid.renders)
	assert.Equal(t, grid.views[0], grid.views[1])
}

func TestRenderFrameRejectedOutsideGraphicsStates(t *testing.T) {
	app, backend, logger := newTestApp()

	assert.False(t, app.RenderFrame())
	assert.Zero(t, backend.begins)
	assert.Contains(t, logger.err.String(), "Uninitialized")

	require.True(t, app.SetupGraphics(800, 480))
	app.Teardown()
	assert.False(t, app.RenderFrame())
	assert.Zero(t, backend.begins)
}

func TestRenderFrameBackendFailure(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))

	backend.beginErr = errBackend
	assert.False(t, app.RenderFrame())
	assert.Equal(t, GraphicsReady, app.State())
	assert.Zero(t, backend.lastGrid().renders)

	backend.beginErr = nil
	backend.endErr = errBackend
	assert.False(t, app.RenderFrame())
	assert.Equal(t, GraphicsReady, app.State())

	backend.endErr = nil
	assert.True(t, app.RenderFrame())
	assert.Equal(t, Rendering, app.State())
}

func TestRenderFrameDrawsHUD(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HUD = true
	app, backend, _ := newTestApp(cfg)
	require.True(t, app.SetupGraphics(800, 480))

	require.True(t, app.RenderFrame())
	require.Len(t, backend.texts, 1)
	require.Len(t, backend.texts[0], 1)
	assert.Contains(t, backend.texts[0][0].Text, "t=0.000s unknown")
	assert.Contains(t, backend.texts[0][0].Text, "800x480")

	app.SetHUD(false)
	require.True(t, app.RenderFrame())
	assert.Len(t, backend.texts, 1)
}

func TestHUDReportsServiceFramePose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HUD = true
	app, backend, _ := newTestApp(cfg)
	require.True(t, app.SetupGraphics(800, 480))

	require.True(t, app.RenderFrame())
	assert.Contains(t, backend.texts[0][0].Text, "pos +0.00 +0.00 +0.00")
	assert.Contains(t, backend.texts[0][0].Text, "fwd +0.00 +1.00 +0.00")

	// A quarter turn about the service's Z axis turns the +Y heading to -X.
	half := math.Sqrt2 / 2
	app.OnPoseAvailable(tracking.Pose{
		Status:      tracking.PoseValid,
		Translation: [3]float64{1, 2, 0.5},
		Orientation: [4]float64{0, 0, half, half},
	})
	require.True(t, app.RenderFrame())
	assert.Contains(t, backend.texts[1][0].Text, "pos +1.00 +2.00 +0.50")
	assert.Contains(t, backend.texts[1][0].Text, "fwd -1.00 +0.00 +0.00")
	assert.Contains(t, backend.texts[1][0].Text, "valid")
}

func TestTeardown(t *testing.T) {
	app, backend, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))
	require.True(t, app.RenderFrame())
	grid := backend.lastGrid()

	app.Teardown()
	assert.Equal(t, TornDown, app.State())
	assert.True(t, grid.released)
	assert.Nil(t, app.Camera())

	app.Teardown()
	assert.Equal(t, TornDown, app.State())

	require.True(t, app.SetupGraphics(800, 480))
	assert.Equal(t, GraphicsReady, app.State())
	assert.True(t, app.RenderFrame())
}

func TestCloseReleasesBackend(t *testing.T) {
	tracker := &fakeTracker{}
	app, backend, _ := newTestApp(TrackingModule{Service: tracker})
	require.Equal(t, tracking.Success, app.ConnectTracking(t.Context()))
	require.True(t, app.SetupGraphics(800, 480))

	app.Close()
	assert.True(t, backend.released)
	assert.Equal(t, 1, tracker.disconnects)
	assert.Equal(t, TornDown, app.State())
}

func TestPoseDeliveryDuringRendering(t *testing.T) {
	app, _, _ := newTestApp()
	require.True(t, app.SetupGraphics(800, 480))

	// Every sample has x == y, so any mix of two samples would show up as x != y.
	const n = 2000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			v := float64(i)
			app.OnPoseAvailable(tracking.Pose{
				Translation: [3]float64{v, v, 0},
				Orientation: [4]float64{0, 0, 0, 1},
			})
		}
	}()

	for i := 0; i < 200; i++ {
		require.True(t, app.RenderFrame())
		p := app.Camera().Position().Sub(core.HeightOffset)
		service := core.InvertPosition(p)
		assert.Equal(t, service.X(), service.Y())
	}
	wg.Wait()
	assert.Equal(t, uint64(n), app.Poses().Received())
}
