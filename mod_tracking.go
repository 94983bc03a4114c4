package posegrid

import (
	"context"

	"github.com/gekko3d/posegrid/tracking"
)

// TrackingModule installs a motion-tracking service. A zero Frames value asks
// for device poses in the start-of-service frame.
type TrackingModule struct {
	Service tracking.Service
	Frames  tracking.FramePair
}

func (mod TrackingModule) Install(app *App, cmd *Commands) {
	if mod.Service == nil {
		panic("TrackingModule: Service is nil")
	}
	frames := mod.Frames
	if frames == (tracking.FramePair{}) {
		frames = tracking.DevicePoseFrames()
	}
	cmd.UseTracking(mod.Service, frames)
}

// ConnectTracking initializes the service, registers the pose callback and
// connects with the service's default config. The first failing step's status
// is returned; the host decides whether to abort or retry.
func (app *App) ConnectTracking(ctx context.Context) tracking.Status {
	log := app.Logger()
	if app.tracker == nil {
		log.Errorf("Connect tracking: no tracking service installed")
		return tracking.Invalid
	}

	if st := app.tracker.Initialize(ctx); st != tracking.Success {
		logTrackingFailure(log, "initialize", st)
		return st
	}

	if st := app.tracker.RegisterPoseCallback(app.trackerFrames, app.OnPoseAvailable); st != tracking.Success {
		logTrackingFailure(log, "register "+app.trackerFrames.String(), st)
		return st
	}

	cfg := app.tracker.GetDefaultConfig()
	if cfg == nil {
		log.Errorf("Tracking returned no default config")
		return tracking.Error
	}

	if st := app.tracker.Connect(cfg); st != tracking.Success {
		logTrackingFailure(log, "connect", st)
		return st
	}

	app.trackerConfig = cfg
	log.Infof("Tracking connected (%s, config %s)", app.trackerFrames, cfg.ID)
	return tracking.Success
}

// DisconnectTracking stops pose delivery and forgets the last pose, so a later
// ConnectTracking starts again from the identity pose.
func (app *App) DisconnectTracking() {
	if app.tracker == nil || app.trackerConfig == nil {
		return
	}
	app.tracker.Disconnect()
	app.trackerConfig = nil
	app.poses.Reset()
	app.Logger().Infof("Tracking disconnected")
}

func logTrackingFailure(log Logger, step string, st tracking.Status) {
	if st == tracking.NoMotionTrackingPermission {
		log.Warnf("Tracking %s: motion tracking permission not granted", step)
		return
	}
	log.Errorf("Tracking %s failed: %s", step, st)
}
