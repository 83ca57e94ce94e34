package telemetry

import "time"

// NoOp is the Logger used when telemetry is disabled.
type NoOp struct{}

func (NoOp) Interval() time.Duration { return 0 }

func (NoOp) Close() error { return nil }
