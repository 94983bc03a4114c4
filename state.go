package posegrid

import "fmt"

// LoopState is the frame loop lifecycle.
type LoopState int

const (
	Uninitialized LoopState = iota
	GraphicsReady
	Rendering
	TornDown
)

func (s LoopState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case GraphicsReady:
		return "GraphicsReady"
	case Rendering:
		return "Rendering"
	case TornDown:
		return "TornDown"
	default:
		return fmt.Sprintf("LoopState(%d)", int(s))
	}
}

func (s LoopState) canRender() bool {
	return s == GraphicsReady || s == Rendering
}
