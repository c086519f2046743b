package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medcamp/internal/model"
)

// CampRepository defines camp submission persistence operations.
type CampRepository interface {
	Create(ctx context.Context, camp *model.CampSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CampSubmission, error)
	ListWithProfiles(ctx context.Context) ([]model.CampSubmission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CampSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CampStatus, actorID uuid.UUID, guard TransitionGuard) (camp *model.CampSubmission, previous model.CampStatus, err error)
}

// TransitionGuard decides whether a submission may move from one status to another.
// It runs inside the update transaction against the stored status.
type TransitionGuard func(from, to model.CampStatus) error

type campRepository struct {
	db *gorm.DB
}

// NewCampRepository creates a new camp repository.
func NewCampRepository(db *gorm.DB) CampRepository {
	return &campRepository{db: db}
}

// Create inserts a new submission.
func (r *campRepository) Create(ctx context.Context, camp *model.CampSubmission) error {
	return r.db.WithContext(ctx).Omit("Profile").Create(camp).Error
}

// FindByID finds a submission by ID with its submitter profile, if any.
func (r *campRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CampSubmission, error) {
	var camp model.CampSubmission
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&camp).Error; err != nil {
		return nil, err
	}
	return &camp, nil
}

// ListWithProfiles returns every submission, newest first, with submitter profiles.
// A missing profile leaves Profile nil.
func (r *campRepository) ListWithProfiles(ctx context.Context) ([]model.CampSubmission, error) {
	var camps []model.CampSubmission
	if err := r.db.WithContext(ctx).Preload("Profile").
		Order("created_at DESC").Order("id DESC").
		Find(&camps).Error; err != nil {
		return nil, err
	}
	return camps, nil
}

// ListByUser returns the submissions owned by userID, newest first.
func (r *campRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CampSubmission, error) {
	var camps []model.CampSubmission
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&camps).Error; err != nil {
		return nil, err
	}
	return camps, nil
}

// UpdateStatus writes only the status column (updated_at is left untouched) and an
// audit row in one transaction, after guard accepts the move. It returns the camp as
// stored after the update and the status it had before.
// There is no version check: concurrent reviewers race and the last write wins.
func (r *campRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CampStatus, actorID uuid.UUID, guard TransitionGuard) (*model.CampSubmission, model.CampStatus, error) {
	var camp model.CampSubmission
	var previous model.CampStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&camp).Error; err != nil {
			return err
		}
		previous = camp.Status
		if guard != nil {
			if err := guard(previous, status); err != nil {
				return err
			}
		}

		if err := tx.Model(&model.CampSubmission{}).Where("id = ?", id).
			UpdateColumn("status", status).Error; err != nil {
			return err
		}
		camp.Status = status

		return tx.Create(&model.CampStatusChange{
			CampID:     id,
			FromStatus: previous,
			ToStatus:   status,
			ChangedBy:  actorID,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &camp, previous, nil
}
