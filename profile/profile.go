// Package profile wraps pkg/profile behind a flag-friendly option
// type.
package profile

import (
	"github.com/pkg/profile"
)

// Opt names a profiling mode.
type Opt string

const (
	None      Opt = "none"
	CPU       Opt = "cpu"
	Memory    Opt = "mem"
	Block     Opt = "block"
	Goroutine Opt = "goroutine"
	Mutex     Opt = "mutex"
	Trace     Opt = "trace"
)

// Profiler runs one profiling mode for the life of the process.
type Profiler struct {
	Type    Opt
	starter func(p *profile.Profile)
	stopper func()
}

// Start profiling.
func (p *Profiler) Start() {
	if p.starter != nil {
		p.stopper = profile.Start(p.starter).Stop
	}
}

// Stop profiling.
func (p *Profiler) Stop() {
	if p.stopper != nil {
		p.stopper()
	}
}

// NewProfiler creates a profiler for the selected mode.
func (p Opt) NewProfiler() Profiler {
	switch p {
	case CPU:
		return Profiler{Type: p, starter: profile.CPUProfile}
	case Memory:
		return Profiler{Type: p, starter: profile.MemProfile}
	case Block:
		return Profiler{Type: p, starter: profile.BlockProfile}
	case Goroutine:
		return Profiler{Type: p, starter: profile.GoroutineProfile}
	case Mutex:
		return Profiler{Type: p, starter: profile.MutexProfile}
	case Trace:
		return Profiler{Type: p, starter: profile.TraceProfile}
	default:
		return Profiler{Type: None}
	}
}
