package clock

import "time"

// SystemClock reads the wall clock.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

// Now is UTC truncated to the millisecond, the precision every storage backend keeps.
func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
