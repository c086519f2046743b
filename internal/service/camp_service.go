package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medcamp/internal/auth"
	apperrors "medcamp/internal/errors"
	"medcamp/internal/events"
	"medcamp/internal/model"
	"medcamp/internal/notify"
	"medcamp/internal/repository"
	"medcamp/internal/telemetry"
)

// CampInput is the raw submission form. Any status the client sends is not part of it.
type CampInput struct {
	CampName        string
	Description     string
	CampDate        string // 2006-01-02
	CampTime        string // 15:04
	Location        string
	Specialties     string
	Capacity        string
	ContactInfo     string
	AdditionalNotes string
}

// Notifier queues outgoing email.
type Notifier interface {
	Enqueue(msg notify.Message)
}

// CampService handles submission and review of medical camps.
type CampService interface {
	Submit(ctx context.Context, caller auth.Identity, in CampInput) (*CampView, error)
	Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*CampView, error)
	ListMine(ctx context.Context, caller auth.Identity) ([]CampView, error)
	ListAll(ctx context.Context, caller auth.Identity) ([]CampView, error)
	SetStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.CampStatus) error
}

type campService struct {
	campRepo  repository.CampRepository
	userRepo  repository.UserRepository
	policy    *auth.Policy
	loc       *time.Location
	publisher events.Publisher
	notifier  Notifier
	now       func() time.Time
}

// NewCampService creates a new camp service. loc is the timezone camp dates are entered in.
func NewCampService(
	campRepo repository.CampRepository,
	userRepo repository.UserRepository,
	policy *auth.Policy,
	loc *time.Location,
	publisher events.Publisher,
	notifier Notifier,
) CampService {
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &campService{
		campRepo:  campRepo,
		userRepo:  userRepo,
		policy:    policy,
		loc:       loc,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit stores one new submission owned by caller with status pending.
func (s *campService) Submit(ctx context.Context, caller auth.Identity, in CampInput) (*CampView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CampService.Submit")
	defer span.End()

	if caller.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated
	}

	camp, err := s.buildCamp(caller.UserID, in)
	if err != nil {
		return nil, err
	}

	if err := s.campRepo.Create(ctx, camp); err != nil {
		return nil, fmt.Errorf("create camp: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeCampSubmitted,
		CampID:  camp.ID,
		UserID:  camp.UserID,
		Status:  camp.Status,
		ActorID: caller.UserID,
	})

	view := NewCampView(*camp)
	return &view, nil
}

func (s *campService) buildCamp(owner uuid.UUID, in CampInput) (*model.CampSubmission, error) {
	required := []struct{ field, value string }{
		{"camp_name", in.CampName},
		{"description", in.Description},
		{"camp_date", in.CampDate},
		{"camp_time", in.CampTime},
		{"location", in.Location},
		{"specialties", in.Specialties},
		{"capacity", in.Capacity},
		{"contact_info", in.ContactInfo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", apperrors.ErrInvalidSubmission, r.field)
		}
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(in.Capacity))
	if err != nil || capacity <= 0 {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCapacity, in.Capacity)
	}

	date, clock := strings.TrimSpace(in.CampDate), strings.TrimSpace(in.CampTime)
	when, err := ScheduleInstant(date, clock, s.loc)
	if err != nil {
		return nil, err
	}

	return &model.CampSubmission{
		UserID:          owner,
		CampName:        strings.TrimSpace(in.CampName),
		Description:     strings.TrimSpace(in.Description),
		CampDate:        when,
		CampTimezone:    s.loc.String(),
		Location:        strings.TrimSpace(in.Location),
		Specialties:     strings.TrimSpace(in.Specialties),
		Capacity:        capacity,
		ContactInfo:     strings.TrimSpace(in.ContactInfo),
		AdditionalNotes: strings.TrimSpace(in.AdditionalNotes),
		Status:          model.CampStatusPending,
	}, nil
}

// Get returns one submission to its owner or to an admin. Anyone else gets not found.
func (s *campService) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*CampView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CampService.Get")
	defer span.End()

	camp, err := s.campRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCampNotFound
		}
		return nil, fmt.Errorf("find camp: %w", err)
	}
	if camp.UserID != caller.UserID && !s.policy.IsAdmin(caller) {
		return nil, apperrors.ErrCampNotFound
	}
	view := NewCampView(*camp)
	return &view, nil
}

// ListMine returns the caller's own submissions, newest first.
func (s *campService) ListMine(ctx context.Context, caller auth.Identity) ([]CampView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CampService.ListMine")
	defer span.End()

	if caller.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated
	}
	camps, err := s.campRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list camps: %w", err)
	}
	return NewCampViews(camps), nil
}

// ListAll returns every submission with submitter display fields, newest first. Admin only.
func (s *campService) ListAll(ctx context.Context, caller auth.Identity) ([]CampView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CampService.ListAll")
	defer span.End()

	if !s.policy.IsAdmin(caller) {
		return nil, apperrors.ErrForbidden
	}
	camps, err := s.campRepo.ListWithProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list camps: %w", err)
	}
	return NewCampViews(camps), nil
}

// SetStatus records an admin decision on one submission. Only the status changes.
func (s *campService) SetStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.CampStatus) error {
	ctx, span := telemetry.Tracer().Start(ctx, "CampService.SetStatus")
	defer span.End()

	if !s.policy.IsAdmin(caller) {
		return apperrors.ErrForbidden
	}
	if err := Transition(model.CampStatusPending, status); err != nil {
		return err
	}

	camp, previous, err := s.campRepo.UpdateStatus(ctx, id, status, caller.UserID, Transition)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperrors.ErrCampNotFound
		case errors.Is(err, apperrors.ErrInvalidStatus):
			return err
		}
		return fmt.Errorf("update camp status: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:           events.TypeCampStatusChanged,
		CampID:         camp.ID,
		UserID:         camp.UserID,
		Status:         status,
		PreviousStatus: previous,
		ActorID:        caller.UserID,
	})
	s.notifySubmitter(ctx, camp)
	return nil
}

func (s *campService) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s for camp %s: %v", event.Type, event.CampID, err)
	}
}

func (s *campService) notifySubmitter(ctx context.Context, camp *model.CampSubmission) {
	if s.notifier == nil {
		return
	}
	owner, err := s.userRepo.FindByID(ctx, camp.UserID)
	if err != nil {
		log.Printf("notify: load submitter %s: %v", camp.UserID, err)
		return
	}
	s.notifier.Enqueue(notify.DecisionMessage(owner.Email, camp.CampName, camp.Status))
}
