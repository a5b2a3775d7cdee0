package clock

import "time"

// Clock supplies the current instant to services that derive time-based state.
type Clock interface {
	Now() time.Time
}

type system struct{}

func NewSystem() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now().UTC()
}

type fixed struct {
	at time.Time
}

// NewFixed always reports t. Used by tests and the seeder.
func NewFixed(t time.Time) Clock {
	return fixed{at: t.UTC()}
}

func (f fixed) Now() time.Time {
	return f.at
}
