package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Mohamed-004/scheduler/pkg/core/availability"
	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// Slot is a suggested alternative window on the requested date
type Slot struct {
	Date  model.LocalDate `json:"date"`
	Start model.ClockTime `json:"start"`
	End   model.ClockTime `json:"end"`

	// OnShift counts team workers whose hours cover the whole slot
	OnShift int `json:"on_shift"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Suggestions are alternative times, earliest first
type Suggestions struct {
	AvailableSlots []Slot `json:"available_slots"`
	BestTimes      []Slot `json:"best_times"`
}

type shift struct {
	start, end model.ClockTime
}

// teamShifts resolves the effective hours of every worker for the date
func teamShifts(ctx context.Context, resolver *availability.Resolver, workers []model.Worker, date model.LocalDate) ([]shift, error) {
	days := make([]model.DaySchedule, len(workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, worker := range workers {
		g.Go(recovered(func() error {
			day, err := resolver.EffectiveDay(gctx, worker, date)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to resolve team hours")
	}

	shifts := make([]shift, 0, len(days))
	for _, day := range days {
		if day.Available && day.End > day.Start {
			shifts = append(shifts, shift{start: day.Start, end: day.End})
		}
	}
	return shifts, nil
}

// mergeShifts returns the union of the shifts as sorted, non-overlapping ranges
func mergeShifts(shifts []shift) []shift {
	if len(shifts) == 0 {
		return nil
	}
	sorted := append([]shift(nil), shifts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	merged := []shift{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			last.end = max(last.end, s.end)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// buildSlots proposes hour-aligned slots inside the team's working hours.
// Slots that start before notBefore, or that no single worker's shift covers, are skipped.
func buildSlots(date model.LocalDate, shifts []shift, opts Options, notBefore model.ClockTime) Suggestions {
	length := model.ClockTime(opts.SlotLength.Minutes())
	slots := make([]Slot, 0, opts.MaxSlots)

	for _, hours := range mergeShifts(shifts) {
		for start := max(hours.start, notBefore).CeilHour(); start+length <= hours.end; start += 60 {
			if len(slots) == opts.MaxSlots {
				break
			}
			slot := Slot{Date: date, Start: start, End: start + length}
			for _, s := range shifts {
				if s.start <= slot.Start && slot.End <= s.end {
					slot.OnShift++
				}
			}
			// Back-to-back shifts merge into hours nobody works end to end
			if slot.OnShift == 0 {
				continue
			}
			slots = append(slots, slot)
		}
	}

	best := slots[:min(len(slots), opts.BestTimes)]
	return Suggestions{AvailableSlots: slots, BestTimes: append([]Slot{}, best...)}
}

func teamHoursIssue(date model.LocalDate, shifts []shift) model.Issue {
	merged := mergeShifts(shifts)
	message := fmt.Sprintf("Nobody on your team works on %ss.", date.Weekday())
	if len(merged) > 0 {
		ranges := make([]string, len(merged))
		for i, s := range merged {
			ranges[i] = fmt.Sprintf("%s-%s", s.start, s.end)
		}
		message = fmt.Sprintf("Your team works %s on %ss.", strings.Join(ranges, ", "), date.Weekday())
	}
	return model.Issue{
		Severity:    model.SeverityInfo,
		Code:        model.CodeTeamHours,
		Title:       "Team working hours",
		Message:     message,
		Suggestions: []string{},
	}
}

func alternativeTimesIssue(best []Slot) model.Issue {
	times := make([]string, len(best))
	for i, slot := range best {
		times[i] = slot.String()
	}
	return model.Issue{
		Severity:    model.SeverityInfo,
		Code:        model.CodeAlternativeTimes,
		Title:       "Other times may work",
		Message:     fmt.Sprintf("Your team is on shift at %s.", strings.Join(times, ", ")),
		Suggestions: times,
		Actions:     []model.Action{adjustTime},
	}
}
