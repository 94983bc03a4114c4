// Package tracking describes the boundary to a motion-tracking service: the pose
// samples it delivers, the status codes it returns and the calls a host makes to
// bring it up and down.
package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Status is the integer result code returned by service calls.
type Status int32

const (
	Success                    Status = 0
	Error                      Status = -1
	Invalid                    Status = -2
	NoMotionTrackingPermission Status = -3
)

var (
	ErrService      = errors.New("tracking service error")
	ErrInvalid      = errors.New("invalid tracking argument")
	ErrNoPermission = errors.New("motion tracking permission not granted")
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Invalid:
		return "invalid"
	case NoMotionTrackingPermission:
		return "no motion tracking permission"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Err returns nil for Success and a wrapped sentinel otherwise.
func (s Status) Err() error {
	switch s {
	case Success:
		return nil
	case Invalid:
		return fmt.Errorf("status %d: %w", int32(s), ErrInvalid)
	case NoMotionTrackingPermission:
		return fmt.Errorf("status %d: %w", int32(s), ErrNoPermission)
	default:
		return fmt.Errorf("status %d: %w", int32(s), ErrService)
	}
}

type CoordinateFrame int

const (
	FrameGlobal CoordinateFrame = iota
	FrameAreaDescription
	FrameStartOfService
	FramePreviousDevicePose
	FrameDevice
	FrameIMU
	FrameDisplay
	FrameCameraColor
	FrameCameraDepth
	FrameCameraFisheye
)

var frameNames = map[CoordinateFrame]string{
	FrameGlobal:             "global",
	FrameAreaDescription:    "area_description",
	FrameStartOfService:     "start_of_service",
	FramePreviousDevicePose: "previous_device_pose",
	FrameDevice:             "device",
	FrameIMU:                "imu",
	FrameDisplay:            "display",
	FrameCameraColor:        "camera_color",
	FrameCameraDepth:        "camera_depth",
	FrameCameraFisheye:      "camera_fisheye",
}

func (f CoordinateFrame) String() string {
	if name, ok := frameNames[f]; ok {
		return name
	}
	return fmt.Sprintf("frame(%d)", int(f))
}

// FramePair names the pose of Target expressed in Base.
type FramePair struct {
	Base   CoordinateFrame
	Target CoordinateFrame
}

func (p FramePair) String() string {
	return p.Base.String() + "->" + p.Target.String()
}

// DevicePoseFrames is the pair the render loop consumes: the device relative to
// where tracking started.
func DevicePoseFrames() FramePair {
	return FramePair{Base: FrameStartOfService, Target: FrameDevice}
}

type PoseStatus int

const (
	PoseInitializing PoseStatus = iota
	PoseValid
	PoseInvalid
	PoseUnknown
)

func (s PoseStatus) String() string {
	switch s {
	case PoseInitializing:
		return "initializing"
	case PoseValid:
		return "valid"
	case PoseInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Pose is one timestamped sample. Orientation is a unit quaternion stored as
// (x, y, z, w). Samples are never modified after delivery.
type Pose struct {
	Timestamp   float64 // seconds since service start
	Frame       FramePair
	Status      PoseStatus
	Translation [3]float64
	Orientation [4]float64
}

// IdentityPose is what a consumer assumes before any sample arrives.
func IdentityPose() Pose {
	return Pose{
		Frame:       DevicePoseFrames(),
		Status:      PoseUnknown,
		Orientation: [4]float64{0, 0, 0, 1},
	}
}

// Config is an opaque configuration handle issued by a service.
type Config struct {
	ID                   uuid.UUID
	EnableMotionTracking bool
	EnableAutoRecovery   bool
}

// PoseCallback is invoked on the service's own goroutine. It must return quickly.
type PoseCallback func(pose Pose)

// Service is a motion-tracking provider.
type Service interface {
	Initialize(ctx context.Context) Status
	GetDefaultConfig() *Config
	Connect(cfg *Config) Status
	Disconnect()
	RegisterPoseCallback(pair FramePair, cb PoseCallback) Status
}
