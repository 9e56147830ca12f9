package repository

import (
	"context"
	"strings"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"gorm.io/gorm"
)

type RecipientFilter struct {
	Active *bool
	Search string
}

type RecipientRepository interface {
	Create(ctx context.Context, recipient *model.EmailRecipient) error
	Update(ctx context.Context, recipient *model.EmailRecipient) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.EmailRecipient, error)
	FindByEmail(ctx context.Context, email string) (*model.EmailRecipient, error)
	List(ctx context.Context, filter RecipientFilter) ([]model.EmailRecipient, error)
	FindActive(ctx context.Context) ([]model.EmailRecipient, error)
	SetActive(ctx context.Context, ids []uint, active bool) (int64, error)
	SetActiveByEmail(ctx context.Context, emails []string, active bool) (int64, error)
}

type recipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) Create(ctx context.Context, recipient *model.EmailRecipient) error {
	logger.Debug("Creating email recipient in database", map[string]interface{}{
		"email": recipient.Email,
	})

	if err := r.db.WithContext(ctx).Create(recipient).Error; err != nil {
		logger.Error("Failed to create email recipient in database", err, map[string]interface{}{
			"email": recipient.Email,
		})
		return err
	}

	logger.Debug("Email recipient created in database", map[string]interface{}{
		"recipient_id": recipient.ID,
		"email":        recipient.Email,
	})
	return nil
}

func (r *recipientRepository) Update(ctx context.Context, recipient *model.EmailRecipient) error {
	logger.Debug("Updating email recipient in database", map[string]interface{}{
		"recipient_id": recipient.ID,
	})

	if err := r.db.WithContext(ctx).Save(recipient).Error; err != nil {
		logger.Error("Failed to update email recipient in database", err, map[string]interface{}{
			"recipient_id": recipient.ID,
		})
		return err
	}
	return nil
}

func (r *recipientRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting email recipient from database", map[string]interface{}{
		"recipient_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.EmailRecipient{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete email recipient from database", result.Error, map[string]interface{}{
			"recipient_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipientRepository) FindByID(ctx context.Context, id uint) (*model.EmailRecipient, error) {
	var recipient model.EmailRecipient
	if err := r.db.WithContext(ctx).First(&recipient, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find email recipient", err, map[string]interface{}{
				"recipient_id": id,
			})
		}
		return nil, err
	}
	return &recipient, nil
}

func (r *recipientRepository) FindByEmail(ctx context.Context, email string) (*model.EmailRecipient, error) {
	var recipient model.EmailRecipient
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&recipient).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find email recipient by email", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}
	return &recipient, nil
}

func (r *recipientRepository) List(ctx context.Context, filter RecipientFilter) ([]model.EmailRecipient, error) {
	query := r.db.WithContext(ctx).Model(&model.EmailRecipient{})
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var recipients []model.EmailRecipient
	if err := query.Order("email ASC").Find(&recipients).Error; err != nil {
		logger.Error("Failed to list email recipients", err, nil)
		return nil, err
	}
	return recipients, nil
}

// FindActive 활성 수신자 목록. 캐시 없이 매번 테이블에서 조회
func (r *recipientRepository) FindActive(ctx context.Context) ([]model.EmailRecipient, error) {
	var recipients []model.EmailRecipient
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&recipients).Error; err != nil {
		logger.Error("Failed to find active email recipients", err, nil)
		return nil, err
	}

	logger.Debug("Active email recipients loaded", map[string]interface{}{
		"count": len(recipients),
	})
	return recipients, nil
}

func (r *recipientRepository) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.EmailRecipient{}).
		Where("id IN ?", ids).
		Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to update email recipient status", result.Error, map[string]interface{}{
			"ids":    ids,
			"active": active,
		})
		return 0, result.Error
	}

	logger.Info("Email recipient status updated", map[string]interface{}{
		"count":  result.RowsAffected,
		"active": active,
	})
	return result.RowsAffected, nil
}

func (r *recipientRepository) SetActiveByEmail(ctx context.Context, emails []string, active bool) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.EmailRecipient{}).
		Where("email IN ?", emails).
		Update("is_active", active)
	if result.Error != nil {
		logger.Error("Failed to update email recipient status by email", result.Error, map[string]interface{}{
			"emails": emails,
			"active": active,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
