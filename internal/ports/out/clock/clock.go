package clock

import "time"

// Clock stamps saved evaluations. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}
