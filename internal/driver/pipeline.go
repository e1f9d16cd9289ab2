// Package driver runs the compilation pipeline: load and parse sources in
// parallel, lower into one shared IR context, validate, and emit LLVM text.
package driver

import "time"

// StageStatus reports whether a pipeline stage started or finished.
type StageStatus int

const (
	// StageStart indicates that a pipeline stage has begun.
	StageStart StageStatus = iota
	StageEnd
)

// StageEvent describes a stage boundary. Elapsed is zero on StageStart.
type StageEvent struct {
	Name    string
	Status  StageStatus
	Elapsed time.Duration
}

// StageObserver receives stage events emitted during Compile. Used by the
// terminal UI; a nil observer disables reporting.
type StageObserver func(StageEvent)

func (o StageObserver) begin(name string) func() {
	if o == nil {
		return func() {}
	}
	o(StageEvent{Name: name, Status: StageStart})
	start := time.Now()
	return func() {
		o(StageEvent{Name: name, Status: StageEnd, Elapsed: time.Since(start)})
	}
}
