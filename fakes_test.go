package posegrid

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/gekko3d/posegrid/rt/core"
	"github.com/gekko3d/posegrid/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type recordingGrid struct {
	renders     int
	released    bool
	projections []mgl32.Mat4
	views       []mgl32.Mat4
}

func (g *recordingGrid) Render(projection, view mgl32.Mat4) {
	g.renders++
	g.projections = append(g.projections, projection)
	g.views = append(g.views, view)
}

func (g *recordingGrid) Release() { g.released = true }

type recordingBackend struct {
	resizes   []Viewport
	grids     []*recordingGrid
	meshes    []core.GridMesh
	colors    [][4]float32
	begins    int
	ends      int
	texts     [][]core.TextItem
	clears    [][4]float32
	released  bool
	resizeErr error
	gridErr   error
	beginErr  error
	endErr    error
}

var errBackend = errors.New("backend failure")

func (b *recordingBackend) Resize(vp Viewport) error {
	if b.resizeErr != nil {
		return b.resizeErr
	}
	b.resizes = append(b.resizes, vp)
	return nil
}

func (b *recordingBackend) NewGridRenderer(mesh core.GridMesh, color [4]float32) (GridRenderer, error) {
	if b.gridErr != nil {
		return nil, b.gridErr
	}
	g := &recordingGrid{}
	b.grids = append(b.grids, g)
	b.meshes = append(b.meshes, mesh)
	b.colors = append(b.colors, color)
	return g, nil
}

func (b *recordingBackend) BeginFrame(clear [4]float32, vp Viewport) error {
	if b.beginErr != nil {
		return b.beginErr
	}
	b.begins++
	b.clears = append(b.clears, clear)
	return nil
}

func (b *recordingBackend) DrawText(items []core.TextItem) {
	b.texts = append(b.texts, items)
}

func (b *recordingBackend) EndFrame() error {
	if b.endErr != nil {
		return b.endErr
	}
	b.ends++
	return nil
}

func (b *recordingBackend) Release() { b.released = true }

func (b *recordingBackend) lastGrid() *recordingGrid {
	if len(b.grids) == 0 {
		return nil
	}
	return b.grids[len(b.grids)-1]
}

type backendModule struct {
	backend Backend
}

func (m backendModule) Install(app *App, cmd *Commands) {
	cmd.UseBackend("recording", m.backend)
}

type bufferLogger struct {
	out bytes.Buffer
	err bytes.Buffer
	*DefaultLogger
}

func newBufferLogger() *bufferLogger {
	l := &bufferLogger{}
	l.DefaultLogger = NewWriterLogger("test", true, &l.out, &l.err)
	return l
}

type loggerModule struct {
	logger Logger
}

func (m loggerModule) Install(app *App, cmd *Commands) {
	cmd.UseLogger(m.logger)
}

// newTestApp builds an App on a recording backend with a captured logger.
func newTestApp(modules ...Module) (*App, *recordingBackend, *bufferLogger) {
	backend := &recordingBackend{}
	logger := newBufferLogger()
	app := NewAppBuilder().
		UseModule(loggerModule{logger: logger.DefaultLogger}, backendModule{backend: backend}).
		UseModule(modules...).
		Build()
	return app, backend, logger
}

// fakeTracker scripts the status of each service call.
type fakeTracker struct {
	mu sync.Mutex

	initStatus     tracking.Status
	registerStatus tracking.Status
	connectStatus  tracking.Status
	noConfig       bool

	calls        []string
	registered   tracking.FramePair
	callback     tracking.PoseCallback
	connectedCfg *tracking.Config
	disconnects  int
}

var _ tracking.Service = (*fakeTracker)(nil)

func (f *fakeTracker) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeTracker) Initialize(ctx context.Context) tracking.Status {
	f.record("initialize")
	return f.initStatus
}

func (f *fakeTracker) GetDefaultConfig() *tracking.Config {
	f.record("config")
	if f.noConfig {
		return nil
	}
	return &tracking.Config{ID: uuid.New(), EnableMotionTracking: true}
}

func (f *fakeTracker) Connect(cfg *tracking.Config) tracking.Status {
	f.record("connect")
	if f.connectStatus == tracking.Success {
		f.connectedCfg = cfg
	}
	return f.connectStatus
}

func (f *fakeTracker) Disconnect() {
	f.record("disconnect")
	f.disconnects++
}

func (f *fakeTracker) RegisterPoseCallback(pair tracking.FramePair, cb tracking.PoseCallback) tracking.Status {
	f.record("register")
	if f.registerStatus == tracking.Success {
		f.registered = pair
		f.callback = cb
	}
	return f.registerStatus
}

func (f *fakeTracker) deliver(p tracking.Pose) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	if cb != nil {
		cb(p)
	}
}
