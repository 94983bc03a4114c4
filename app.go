package posegrid

import (
	"fmt"
	"reflect"

	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/google/uuid"
)

// Module configures an App while it is being built.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App is the session object a host shell owns. It holds the shared pose cell the
// tracking service writes into and everything the render loop needs: camera,
// grid renderer and GPU backend. SetupGraphics, RenderFrame and Teardown must be
// called from the same goroutine; OnPoseAvailable may be called from any.
type App struct {
	id        uuid.UUID
	resources map[reflect.Type]any
	logger    Logger
	config    *Config

	backend       Backend
	tracker       tracking.Service
	trackerFrames tracking.FramePair
	trackerConfig *tracking.Config

	poses PoseSnapshotContainer

	state      LoopState
	viewport   Viewport
	camera     *core.CameraState
	grid       GridRenderer
	gridMesh   core.GridMesh
	clearColor [4]float32
	gridColor  [4]float32
	hudEnabled bool
	profiler   *Profiler
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) ID() uuid.UUID                  { return app.id }
func (app *App) State() LoopState               { return app.state }
func (app *App) Viewport() Viewport             { return app.viewport }
func (app *App) Config() *Config                { return app.config }
func (app *App) Profiler() *Profiler            { return app.profiler }
func (app *App) Poses() *PoseSnapshotContainer { return &app.poses }

// Camera is nil before the first successful SetupGraphics and after Teardown.
func (app *App) Camera() *core.CameraState { return app.camera }

func (app *App) SetHUD(enabled bool) { app.hudEnabled = enabled }
func (app *App) HUDEnabled() bool    { return app.hudEnabled }

// SetupGraphics prepares the camera and grid for a surface of the given size.
// It runs on surface creation and on every size change. An unusable size or a
// backend failure is logged and reported as false without touching the current
// camera, grid or state, so the host can retry on its next surface event.
func (app *App) SetupGraphics(width, height int) bool {
	log := app.Logger()
	if height <= 0 || width <= 0 {
		log.Errorf("Setup graphics: viewport %dx%d not valid", width, height)
		return false
	}
	vp := Viewport{Width: width, Height: height}

	grid, err := app.backend.NewGridRenderer(app.gridMesh, app.gridColor)
	if err != nil {
		log.Errorf("Setup graphics: create grid: %v", err)
		return false
	}
	// Resize last: the surface must stay at app.viewport unless setup succeeds.
	if err := app.backend.Resize(vp); err != nil {
		grid.Release()
		log.Errorf("Setup graphics: resize to %dx%d: %v", width, height, err)
		return false
	}

	cam := core.NewCameraState()
	cam.SetAspectRatio(vp.Aspect())

	if app.grid != nil {
		app.grid.Release()
	}
	app.grid = grid
	app.camera = cam
	app.viewport = vp
	app.state = GraphicsReady
	app.profiler.Reset()

	log.Infof("Graphics ready %dx%d (aspect %.3f)", width, height, vp.Aspect())
	return true
}

// RenderFrame draws one frame from whatever pose is current. A missing pose means
// the identity pose. It never blocks on the tracking side.
func (app *App) RenderFrame() bool {
	if !app.state.canRender() {
		app.Logger().Warnf("RenderFrame called in state %s", app.state)
		return false
	}

	app.profiler.BeginScope("Frame")
	pose := app.currentPose()
	app.applyPose(pose)

	if err := app.backend.BeginFrame(app.clearColor, app.viewport); err != nil {
		app.profiler.EndScope("Frame")
		app.Logger().Warnf("Render frame: %v", err)
		return false
	}

	app.grid.Render(app.camera.GetProjectionMatrix(), app.camera.GetViewMatrix())
	if app.hudEnabled {
		app.backend.DrawText(app.hudItems(pose))
	}

	err := app.backend.EndFrame()
	app.profiler.EndScope("Frame")
	if err != nil {
		app.Logger().Warnf("Render frame: %v", err)
		return false
	}

	app.state = Rendering
	app.profiler.Inc("frames")
	app.profiler.SetCount("poses", int(app.poses.Received()))
	app.profiler.FrameTick()
	return true
}

// Teardown releases the grid renderer and camera. Rendering afterwards is
// rejected until SetupGraphics runs again.
func (app *App) Teardown() {
	if app.state == TornDown {
		return
	}
	if app.grid != nil {
		app.grid.Release()
		app.grid = nil
	}
	app.camera = nil
	app.state = TornDown
	app.Logger().Infof("Graphics torn down")
}

// Close tears down graphics, disconnects tracking and releases the backend.
func (app *App) Close() {
	app.Teardown()
	app.DisconnectTracking()
	if app.backend != nil {
		app.backend.Release()
		app.backend = headlessBackend{}
	}
}

func (app *App) currentPose() tracking.Pose {
	if p := app.poses.Get(); p != nil {
		return *p
	}
	return tracking.IdentityPose()
}

// applyPose moves the camera to the converted pose lifted by the eye-height offset.
func (app *App) applyPose(pose tracking.Pose) {
	pos, rot := core.PoseVectors(pose.Translation, pose.Orientation)
	app.camera.SetPosition(core.ConvertPosition(pos).Add(core.HeightOffset))
	app.camera.SetRotation(core.ConvertOrientation(rot))
}
