package memstore

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
)

// Fixture is the YAML layout of a team data file
type Fixture struct {
	Roles   []RoleFixture   `yaml:"roles"`
	Workers []WorkerFixture `yaml:"workers"`
	Jobs    []JobFixture    `yaml:"jobs"`
	Crews   []CrewFixture   `yaml:"crews"`
}

type RoleFixture struct {
	ID       string   `yaml:"id"`
	TeamID   string   `yaml:"teamID"`
	Name     string   `yaml:"name"`
	BaseRate *float64 `yaml:"baseRate,omitempty"`
	Inactive bool     `yaml:"inactive,omitempty"`
}

type DayFixture struct {
	Start       model.ClockTime `yaml:"start"`
	End         model.ClockTime `yaml:"end"`
	Unavailable bool            `yaml:"unavailable,omitempty"`
}

type ExceptionFixture struct {
	Date        model.LocalDate `yaml:"date"`
	Unavailable bool            `yaml:"unavailable,omitempty"`
	Start       model.ClockTime `yaml:"start,omitempty"`
	End         model.ClockTime `yaml:"end,omitempty"`
	Reason      string          `yaml:"reason,omitempty"`
}

type CapabilityFixture struct {
	Role        string `yaml:"role"`
	Proficiency int    `yaml:"proficiency"`
	Inactive    bool   `yaml:"inactive,omitempty"`
}

type WorkerFixture struct {
	ID           string                `yaml:"id"`
	Name         string                `yaml:"name"`
	TeamID       string                `yaml:"teamID"`
	Inactive     bool                  `yaml:"inactive,omitempty"`
	HourlyRate   *float64              `yaml:"hourlyRate,omitempty"`
	Schedule     map[string]DayFixture `yaml:"schedule"`
	Exceptions   []ExceptionFixture    `yaml:"exceptions,omitempty"`
	Capabilities []CapabilityFixture   `yaml:"capabilities,omitempty"`
}

type JobFixture struct {
	ID           string                  `yaml:"id"`
	TeamID       string                  `yaml:"teamID"`
	ClientID     string                  `yaml:"clientID,omitempty"`
	Address      string                  `yaml:"address,omitempty"`
	Date         model.LocalDate         `yaml:"date"`
	Start        model.ClockTime         `yaml:"start"`
	End          model.ClockTime         `yaml:"end"`
	Status       model.JobStatus         `yaml:"status"`
	Workers      []string                `yaml:"workers"`
	Requirements []model.RoleRequirement `yaml:"requirements,omitempty"`
}

type CrewCapabilityFixture struct {
	Role        string `yaml:"role"`
	Capacity    int    `yaml:"capacity"`
	Proficiency int    `yaml:"proficiency"`
}

type CrewFixture struct {
	ID           string                  `yaml:"id"`
	TeamID       string                  `yaml:"teamID"`
	Name         string                  `yaml:"name"`
	Lead         string                  `yaml:"lead,omitempty"`
	Members      []string                `yaml:"members"`
	Capabilities []CrewCapabilityFixture `yaml:"capabilities"`
	Inactive     bool                    `yaml:"inactive,omitempty"`
}

// LoadFile reads a YAML fixture from disk into a new store
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fixture file")
	}
	return Load(data)
}

// Load parses a YAML fixture into a new store
func Load(data []byte) (*Store, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(err, "failed to parse fixture")
	}
	return FromFixture(fixture)
}

// FromFixture builds a store from an already decoded fixture
func FromFixture(fixture Fixture) (*Store, error) {
	store := New()

	for _, r := range fixture.Roles {
		store.AddRole(model.JobRole{
			ID:       r.ID,
			TeamID:   r.TeamID,
			Name:     r.Name,
			BaseRate: r.BaseRate,
			Active:   !r.Inactive,
		})
	}

	for _, w := range fixture.Workers {
		schedule := make(model.WeeklySchedule)
		for dayName, day := range w.Schedule {
			weekday, err := parseWeekday(dayName)
			if err != nil {
				return nil, errors.Wrapf(err, "worker %s", w.ID)
			}
			schedule[weekday] = model.DaySchedule{Available: !day.Unavailable, Start: day.Start, End: day.End}
		}

		store.AddWorker(model.Worker{
			ID:         w.ID,
			Name:       w.Name,
			TeamID:     w.TeamID,
			Active:     !w.Inactive,
			HourlyRate: w.HourlyRate,
			Schedule:   schedule,
		})

		for _, e := range w.Exceptions {
			store.AddException(model.AvailabilityException{
				WorkerID:    w.ID,
				Date:        e.Date,
				Unavailable: e.Unavailable,
				Start:       e.Start,
				End:         e.End,
				Reason:      e.Reason,
			})
		}

		for _, c := range w.Capabilities {
			store.AddCapability(model.WorkerCapability{
				WorkerID:         w.ID,
				JobRoleID:        c.Role,
				ProficiencyLevel: c.Proficiency,
				Active:           !c.Inactive,
			})
		}
	}

	for _, j := range fixture.Jobs {
		status := j.Status
		if status == "" {
			status = model.JobStatusScheduled
		}
		store.AddJob(model.Job{
			ID:                j.ID,
			TeamID:            j.TeamID,
			ClientID:          j.ClientID,
			Address:           j.Address,
			Requirements:      j.Requirements,
			Start:             j.Date.At(j.Start),
			End:               j.Date.At(j.End),
			AssignedWorkerIDs: j.Workers,
			Status:            status,
		})
	}

	for _, c := range fixture.Crews {
		capabilities := make([]model.CrewRoleCapability, len(c.Capabilities))
		for i, capability := range c.Capabilities {
			capabilities[i] = model.CrewRoleCapability{
				JobRoleID:        capability.Role,
				Capacity:         capability.Capacity,
				ProficiencyLevel: capability.Proficiency,
			}
		}
		store.AddCrew(model.Crew{
			ID:           c.ID,
			TeamID:       c.TeamID,
			Name:         c.Name,
			Active:       !c.Inactive,
			LeadWorkerID: c.Lead,
			MemberIDs:    c.Members,
			Capabilities: capabilities,
		})
	}

	return store, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) || strings.EqualFold(day.String()[:3], name) {
			return day, nil
		}
	}
	return 0, errors.Newf("unknown weekday %q", name)
}
