package services

import (
	"time"

	"github.com/you/adminconsole/domain"
)

// SystemClock implements domain.Clock with the wall clock and runtime timers
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) domain.Timer {
	return time.AfterFunc(d, f)
}
