package camera

import "sync/atomic"

// StopFlag is the cancellation flag shared by the application and the
// monitor's watchdog. It flips from false to true at most once.
type StopFlag struct {
	stopped atomic.Bool
}

func NewStopFlag() *StopFlag { return &StopFlag{} }

// RequestStop sets the flag. It reports whether this call flipped it.
func (f *StopFlag) RequestStop() bool {
	return f.stopped.CompareAndSwap(false, true)
}

// ShouldStop reports whether a stop was requested.
func (f *StopFlag) ShouldStop() bool {
	return f.stopped.Load()
}
