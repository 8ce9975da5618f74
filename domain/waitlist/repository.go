package waitlist

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

import (
	"context"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/models"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// FindByEmail returns (nil, nil) when no entry has the email.
	FindByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
	// CreateEntry inserts entry. A unique-constraint violation is reported as a conflict.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// DeleteByEmail removes the entry with the email, if any.
	DeleteByEmail(ctx context.Context, email string) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) FindByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry

	// Find with Limit instead of First: a miss is not an error here.
	if err := wr.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&entries).Error; err != nil {
		return nil, apperrors.NewPersistenceError(MessageJoinFailed, err)
	}

	if len(entries) == 0 {
		return nil, nil
	}

	return &entries[0], nil
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError(MessageAlreadyJoined, err)
		}
		return nil, apperrors.NewPersistenceError(MessageJoinFailed, err)
	}

	return entry, nil
}

func (wr *waitlistRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := wr.db.WithContext(ctx).Where("email = ?", email).Delete(&models.WaitlistEntry{}).Error; err != nil {
		return apperrors.NewPersistenceError("unable to delete waitlist entry", err)
	}

	return nil
}
