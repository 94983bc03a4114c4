// Package sim is a stand-in motion-tracking service. It walks the device around a
// circle in the start-of-service frame and reports poses from its own goroutine at a
// fixed rate, which is enough to drive the render loop without tracking hardware.
package sim

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gekko3d/posegrid/tracking"
	"github.com/google/uuid"
)

const (
	DefaultRateHz = 100.0
	DefaultRadius = 2.0
	DefaultPeriod = 20 * time.Second
)

type Service struct {
	RateHz            float64
	Radius            float64
	Period            time.Duration
	PermissionGranted bool

	mu          sync.Mutex
	parent      context.Context
	initialized bool
	connected   bool
	issued      map[uuid.UUID]struct{}
	frames      tracking.FramePair
	callback    tracking.PoseCallback
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

var _ tracking.Service = (*Service)(nil)

func New() *Service {
	return &Service{
		RateHz:            DefaultRateHz,
		Radius:            DefaultRadius,
		Period:            DefaultPeriod,
		PermissionGranted: true,
		issued:            make(map[uuid.UUID]struct{}),
	}
}

func (s *Service) Initialize(ctx context.Context) tracking.Status {
	if ctx == nil {
		return tracking.Invalid
	}
	if ctx.Err() != nil {
		return tracking.Error
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = ctx
	s.initialized = true
	if s.issued == nil {
		s.issued = make(map[uuid.UUID]struct{})
	}
	return tracking.Success
}

func (s *Service) GetDefaultConfig() *tracking.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil
	}

	cfg := &tracking.Config{
		ID:                   uuid.New(),
		EnableMotionTracking: true,
		EnableAutoRecovery:   true,
	}
	s.issued[cfg.ID] = struct{}{}
	return cfg
}

func (s *Service) RegisterPoseCallback(pair tracking.FramePair, cb tracking.PoseCallback) tracking.Status {
	if cb == nil {
		return tracking.Invalid
	}
	if pair != tracking.DevicePoseFrames() {
		return tracking.Invalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return tracking.Error
	}
	if !s.PermissionGranted {
		return tracking.NoMotionTrackingPermission
	}
	s.frames = pair
	s.callback = cb
	return tracking.Success
}

func (s *Service) Connect(cfg *tracking.Config) tracking.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || cfg == nil {
		return tracking.Error
	}
	if _, ok := s.issued[cfg.ID]; !ok {
		return tracking.Invalid
	}
	if !s.PermissionGranted {
		return tracking.NoMotionTrackingPermission
	}
	if !cfg.EnableMotionTracking {
		return tracking.Invalid
	}
	if s.connected {
		return tracking.Success
	}

	rate := s.RateHz
	if rate <= 0 {
		rate = DefaultRateHz
	}

	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.connected = true

	s.wg.Add(1)
	go s.run(ctx, time.Duration(float64(time.Second)/rate))
	return tracking.Success
}

// Disconnect stops delivery. No callback runs after it returns.
func (s *Service) Disconnect() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.connected = false
	s.issued = make(map[uuid.UUID]struct{})
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			cb := s.callback
			s.mu.Unlock()
			if cb == nil {
				continue
			}
			// Re-check so a tick racing with Disconnect is dropped.
			if ctx.Err() != nil {
				return
			}
			cb(s.Sample(now.Sub(start)))
		}
	}
}

// Sample is the pose at time t along the orbit. The device starts at (Radius, 0, 0)
// facing +Y and turns with the path, so its heading always follows the tangent.
func (s *Service) Sample(t time.Duration) tracking.Pose {
	period := s.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	angle := 2 * math.Pi * t.Seconds() / period.Seconds()
	sin, cos := math.Sincos(angle)
	halfSin, halfCos := math.Sincos(angle / 2)

	return tracking.Pose{
		Timestamp:   t.Seconds(),
		Frame:       tracking.DevicePoseFrames(),
		Status:      tracking.PoseValid,
		Translation: [3]float64{s.Radius * cos, s.Radius * sin, 0},
		Orientation: [4]float64{0, 0, halfSin, halfCos},
	}
}
