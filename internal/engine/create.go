package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Hosea1989/CouplesQuest-App-sub006/internal/storage"
)

// ParseCategory normalizes user input to a Category, falling back to the
// default rather than failing: a miscategorized task is still a task.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c
	}
	return DefaultCategory
}

// ParseVerify parses a verification requirement, rejecting unknown values
// so a typo does not silently create an unverifiable task.
func ParseVerify(s string) (VerifyRequirement, error) {
	if s == "" {
		return VerifyNone, nil
	}
	v := VerifyRequirement(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("unknown verification %q (want none, photo, location or both)", s)
	}
	return v, nil
}

// Geofence is an optional target area attached at creation time.
type Geofence struct {
	Lat     float64
	Lon     float64
	RadiusM float64
	Name    string
}

// CreateTaskParams carries everything CreateTask needs. Zero values mean
// "not set" for the optional fields.
type CreateTaskParams struct {
	Title             string
	Description       string
	Category          Category
	Verify            VerifyRequirement
	Mode              CompletionMode
	DueDate           *time.Time
	MinDuration       time.Duration
	BaseExp           int
	BaseGold          int
	Geofence          *Geofence
	RoutineID         string
	IsHabit           bool
	IsRecurring       bool
	FromPartner       bool
	SharedWithPartner bool
	IsCoop            bool
	HabitDueHour      *int
}

const (
	defaultBaseExp  = 10
	defaultBaseGold = 5
)

// CreateTask validates and persists a new pending task. The completion
// mode is resolved here, once, and stored with the task; later stages
// read it back instead of re-deriving it from the title.
func (s *Service) CreateTask(ctx context.Context, p CreateTaskParams) (*storage.Task, error) {
	title, err := normalizeTitle(p.Title)
	if err != nil {
		return nil, err
	}

	cat := p.Category
	if !cat.IsValid() {
		cat = DefaultCategory
	}
	verify := p.Verify
	if !verify.IsValid() {
		verify = VerifyNone
	}
	mode := p.Mode
	if mode == "" {
		mode = ModeStandard
	}
	if p.IsHabit {
		mode = ModeHabit
	}

	baseExp := p.BaseExp
	if baseExp <= 0 {
		baseExp = defaultBaseExp
	}
	baseGold := p.BaseGold
	if baseGold <= 0 {
		baseGold = defaultBaseGold
	}

	if p.Geofence != nil && p.Geofence.RadiusM <= 0 {
		return nil, fmt.Errorf("geofence radius must be positive")
	}

	c, err := s.getCharacter(ctx)
	if err != nil {
		return nil, err
	}

	in := storage.TaskInsert{
		CharacterID:       c.ID,
		Title:             title,
		Category:          string(cat),
		Mode:              string(mode),
		Verify:            string(verify),
		Status:            string(StatusPending),
		MinDurationSec:    int(p.MinDuration.Seconds()),
		DueDate:           p.DueDate,
		BaseExp:           baseExp,
		BaseGold:          baseGold,
		IsHabit:           p.IsHabit,
		IsRecurring:       p.IsRecurring,
		FromPartner:       p.FromPartner,
		SharedWithPartner: p.SharedWithPartner,
		IsCoop:            p.IsCoop,
		HabitDueHour:      p.HabitDueHour,
	}
	if p.Description != "" {
		d := p.Description
		in.Description = &d
	}
	if p.Geofence != nil {
		g := *p.Geofence
		in.GeofenceLat = &g.Lat
		in.GeofenceLon = &g.Lon
		in.GeofenceRadiusM = &g.RadiusM
		if g.Name != "" {
			in.GeofenceName = &g.Name
		}
	}
	if p.RoutineID != "" {
		r := p.RoutineID
		in.RoutineID = &r
	}
	if p.IsHabit {
		in.HabitDay = DayStamp(s.clock.Now())
	}

	id, err := s.tasks.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("task created",
		zap.Int64("task", id),
		zap.String("category", string(cat)),
		zap.String("verify", string(verify)))
	return t, nil
}
