package main

import (
	"context"
	"flag"
	"runtime"

	"github.com/gekko3d/posegrid"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/gekko3d/posegrid/tracking/sim"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a JSON config file")
	debug := flag.Bool("debug", false, "Enable debug logging and profiler HUD")
	flag.Parse()

	cfg := posegrid.DefaultConfig()
	if *configPath != "" {
		loaded, err := posegrid.LoadConfig(*configPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Debug = true
	}

	period, err := cfg.TrackingPeriod()
	if err != nil {
		panic(err)
	}
	tracker := sim.New()
	tracker.RateHz = cfg.Tracking.RateHz
	tracker.Radius = cfg.Tracking.Radius
	tracker.Period = period

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := posegrid.NewAppBuilder().
		UseModule(
			posegrid.LoggingModule{Prefix: cfg.LogPrefix, Debug: cfg.Debug},
			cfg,
			posegrid.ClientModule{Window: window, Text: true},
			posegrid.TrackingModule{Service: tracker},
		).
		Build()
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if st := application.ConnectTracking(ctx); st != tracking.Success {
		application.Logger().Warnf("Running without tracking: %v", st.Err())
	}

	width, height := window.GetFramebufferSize()
	application.SetupGraphics(width, height)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.SetupGraphics(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyTab && action == glfw.Press {
			application.SetHUD(!application.HUDEnabled())
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.RenderFrame()
	}
}
