package validation

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// Closure is a recurring day the business is shut, e.g. public holidays
type Closure struct {
	Name string
	Rule rrule.ROption
}

// Options tunes the validation pipeline
type Options struct {
	// BusinessStart and BusinessEnd bound the hours that do not raise UNUSUAL_HOURS
	BusinessStart model.ClockTime
	BusinessEnd   model.ClockTime

	// Zero durations mean unset and take the defaults
	MaxDurationHours float64
	MinDurationHours float64

	// Timeout bounds a whole Validate call, store reads included. A store call
	// that ignores ctx is abandoned when it expires, not stopped.
	Timeout time.Duration

	SlotLength time.Duration
	MaxSlots   int
	BestTimes  int

	Closures []Closure

	// Now is the clock used for past-date checks
	Now func() time.Time
}

// DefaultOptions returns the standard business rules
func DefaultOptions() Options {
	return Options{
		BusinessStart:    model.NewClockTime(6, 0),
		BusinessEnd:      model.NewClockTime(22, 0),
		MaxDurationHours: 12,
		MinDurationHours: 0.5,
		Timeout:          8 * time.Second,
		SlotLength:       2 * time.Hour,
		MaxSlots:         8,
		BestTimes:        3,
		Now:              time.Now,
	}
}

// withDefaults fills zero fields so a partially built Options is usable
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.BusinessStart == 0 && o.BusinessEnd == 0 {
		o.BusinessStart, o.BusinessEnd = defaults.BusinessStart, defaults.BusinessEnd
	}
	if o.MaxDurationHours <= 0 {
		o.MaxDurationHours = defaults.MaxDurationHours
	}
	if o.MinDurationHours <= 0 {
		o.MinDurationHours = defaults.MinDurationHours
	}
	if o.Timeout <= 0 {
		o.Timeout = defaults.Timeout
	}
	if o.SlotLength <= 0 {
		o.SlotLength = defaults.SlotLength
	}
	if o.MaxSlots <= 0 {
		o.MaxSlots = defaults.MaxSlots
	}
	if o.BestTimes <= 0 {
		o.BestTimes = defaults.BestTimes
	}
	if o.Now == nil {
		o.Now = defaults.Now
	}
	return o
}

// closedOn returns the closure falling on the date, if any
func (o Options) closedOn(date model.LocalDate) (Closure, bool) {
	dayStart := date.At(0)
	dayEnd := date.At(model.EndOfDay).Add(-time.Nanosecond)

	for _, closure := range o.Closures {
		option := closure.Rule
		if option.Dtstart.IsZero() {
			option.Dtstart = time.Date(date.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		// A fresh rule per call keeps Options safe to share between goroutines
		rule, err := rrule.NewRRule(option)
		if err != nil {
			continue
		}
		if len(rule.Between(dayStart, dayEnd, true)) > 0 {
			return closure, true
		}
	}
	return Closure{}, false
}
