package posegrid

import (
	"reflect"

	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/google/uuid"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		id:            uuid.New(),
		resources:     make(map[reflect.Type]any),
		backend:       headlessBackend{},
		trackerFrames: tracking.DevicePoseFrames(),
		state:         Uninitialized,
		profiler:      NewProfiler(),
	}}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs the modules in order, then applies the config they provided.
// Without a Config module the defaults apply.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	cfg, ok := app.resources[reflect.TypeOf(Config{})].(*Config)
	if !ok {
		cfg = DefaultConfig()
	}
	app.config = cfg
	app.gridMesh = core.NewGridMesh(cfg.Grid.HalfExtent, cfg.Grid.Spacing)
	app.clearColor = cfg.ClearRGBA()
	app.gridColor = cfg.GridRGBA()
	app.hudEnabled = cfg.HUD
	if cfg.Debug {
		app.Logger().SetDebug(true)
	}

	app.Logger().Debugf("Session %s built with %d modules", app.id, len(b.modules))
	return app
}

// Install lets a Config be passed to UseModule directly.
func (c *Config) Install(app *App, cmd *Commands) {
	cmd.AddResources(c)
}
