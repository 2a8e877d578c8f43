package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

const minutesPerDay = 24 * 60

// ScheduleInput is one weekly slot as clients send it: a 0–6 week day
// and clock times like "8:00" or "18:30".
type ScheduleInput struct {
	WeekDay int    `json:"week_day"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// ClassService handles teaching offerings.
type ClassService struct {
	classes  repository.ClassRepository
	subjects repository.SubjectRepository
	logger   *slog.Logger
}

func NewClassService(
	classes repository.ClassRepository,
	subjects repository.SubjectRepository,
	logger *slog.Logger,
) *ClassService {
	return &ClassService{
		classes:  classes,
		subjects: subjects,
		logger:   logger,
	}
}

// Create validates and persists a class plus its schedule slots.
//
// Rules: the subject must exist in the taxonomy, the summary must be
// non-empty, the cost non-negative, and every slot well-formed with
// start strictly before end.
func (s *ClassService) Create(ctx context.Context, userID, subjectID int64, cost float64, summary string, schedule []ScheduleInput) (*model.Class, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, apperror.ValidationFailed("summary", "summary is required")
	}
	if cost < 0 {
		return nil, apperror.ValidationFailed("cost", "cost must not be negative")
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	slots := make([]model.ScheduleSlot, 0, len(schedule))
	for i, in := range schedule {
		slot, err := parseScheduleSlot(in)
		if err != nil {
			return nil, apperror.ValidationFailed("schedule",
				fmt.Sprintf("schedule slot %d: %s", i+1, err))
		}
		slots = append(slots, slot)
	}

	class := &model.Class{
		UserID:    userID,
		SubjectID: subjectID,
		Cost:      cost,
		Summary:   summary,
		Subject:   subject.Name,
		Schedule:  slots,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("service/class: creating class: %w", err)
	}

	s.logger.Info("class created",
		slog.Int64("classID", class.ID),
		slog.Int64("userID", userID),
		slog.String("subject", subject.Name),
	)

	return class, nil
}

// ListFilter narrows a listing; zero values mean "all". WeekDayStr is
// the raw query parameter ("" = any day, "0" = Sunday).
type ListFilter struct {
	UserID     int64
	SubjectID  int64
	WeekDayStr string
}

// List returns classes annotated with owner and subject fields.
// Owner-filtered listings include the schedule slots, so a teacher
// sees their own availability.
func (s *ClassService) List(ctx context.Context, filter ListFilter) ([]model.Class, error) {
	weekDay := -1
	if filter.WeekDayStr != "" {
		d, err := strconv.Atoi(filter.WeekDayStr)
		if err != nil || d < 0 || d > 6 {
			return nil, apperror.ValidationFailed("week_day", "week_day must be 0 (Sunday) through 6 (Saturday)")
		}
		weekDay = d
	}

	classes, err := s.classes.List(ctx, repository.ClassFilter{
		UserID:          filter.UserID,
		SubjectID:       filter.SubjectID,
		WeekDay:         weekDay,
		IncludeSchedule: filter.UserID != 0,
	})
	if err != nil {
		return nil, fmt.Errorf("service/class: listing classes: %w", err)
	}

	return classes, nil
}

// Subjects returns the taxonomy for client pickers.
func (s *ClassService) Subjects(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/class: listing subjects: %w", err)
	}
	return subjects, nil
}

// parseScheduleSlot validates one slot and converts its clock times to
// minutes from midnight.
func parseScheduleSlot(in ScheduleInput) (model.ScheduleSlot, error) {
	if in.WeekDay < 0 || in.WeekDay > 6 {
		return model.ScheduleSlot{}, fmt.Errorf("week_day must be 0 (Sunday) through 6 (Saturday)")
	}

	from, err := parseClock(in.From)
	if err != nil {
		return model.ScheduleSlot{}, fmt.Errorf("invalid from time %q: %w", in.From, err)
	}
	to, err := parseClock(in.To)
	if err != nil {
		return model.ScheduleSlot{}, fmt.Errorf("invalid to time %q: %w", in.To, err)
	}
	if from >= to {
		return model.ScheduleSlot{}, fmt.Errorf("start %q must be before end %q", in.From, in.To)
	}

	return model.ScheduleSlot{
		WeekDay: in.WeekDay,
		From:    from,
		To:      to,
	}, nil
}

// parseClock converts "H:MM" / "HH:MM" to minutes from midnight, so
// "8:00" → 480. "24:00" is accepted as end-of-day.
func parseClock(s string) (int, error) {
	hourStr, minStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("expected H:MM")
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("hour out of range")
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("minute out of range")
	}

	total := hour*60 + min
	if total > minutesPerDay {
		return 0, fmt.Errorf("time past end of day")
	}
	return total, nil
}
