package posegrid

import "github.com/gekko3d/posegrid/tracking"

// Commands is what a Module gets to configure the App while it is being built.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseLogger replaces the App's logger. A nil logger silences it.
func (cmd *Commands) UseLogger(logger Logger) *Commands {
	cmd.app.logger = logger
	return cmd
}

// UseBackend replaces the headless backend. Only one GPU backend may be installed.
func (cmd *Commands) UseBackend(name string, backend Backend) *Commands {
	ensureSingleBackend(cmd.app, name)
	cmd.app.backend = backend
	return cmd
}

func (cmd *Commands) UseTracking(service tracking.Service, frames tracking.FramePair) *Commands {
	cmd.app.tracker = service
	cmd.app.trackerFrames = frames
	return cmd
}
