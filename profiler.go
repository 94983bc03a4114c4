package posegrid

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler collects per-frame CPU timings and counters on the render goroutine.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	FPS        float64
	frameCount int
	fpsWindow  time.Duration
	lastFrame  time.Time

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = p.now()
	for _, n := range p.Order {
		if n == name {
			return
		}
	}
	p.Order = append(p.Order, name)
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) Inc(name string) {
	p.Counts[name]++
}

// FrameTick marks the end of a presented frame and refreshes FPS once a second.
func (p *Profiler) FrameTick() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frameCount++
		p.fpsWindow += now.Sub(p.lastFrame)
		if p.fpsWindow >= time.Second {
			p.FPS = float64(p.frameCount) / p.fpsWindow.Seconds()
			p.frameCount = 0
			p.fpsWindow = 0
		}
	}
	p.lastFrame = now
}

func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	p.frameCount = 0
	p.fpsWindow = 0
	p.lastFrame = time.Time{}
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("FPS: %.1f\n", p.FPS))
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("%-8s %.2f ms\n", name, ms))
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%-8s %d\n", k, p.Counts[k]))
	}

	return sb.String()
}
