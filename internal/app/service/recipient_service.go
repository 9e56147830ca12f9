package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRecipientExists   = errors.New("recipient email already exists")
	ErrRecipientNotFound = errors.New("recipient not found")
)

const recipientNameMaxLength = 50

// RecipientInput 수신자 생성/수정 입력. IsActive가 nil이면 생성 시 활성.
type RecipientInput struct {
	Email    string `json:"email" yaml:"email"`
	Name     string `json:"name" yaml:"name"`
	IsActive *bool  `json:"is_active" yaml:"is_active"`
}

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type RecipientService interface {
	List(ctx context.Context, filter repository.RecipientFilter) ([]model.EmailRecipient, error)
	Create(ctx context.Context, input RecipientInput) (*model.EmailRecipient, error)
	Update(ctx context.Context, id uint, input RecipientInput) (*model.EmailRecipient, error)
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, ids []uint, active bool) (int64, error)
	SetActiveByEmail(ctx context.Context, emails []string, active bool) (int64, error)
	Import(ctx context.Context, entries []RecipientInput) (ImportResult, error)
}

type recipientService struct {
	recipientRepo repository.RecipientRepository
	validate      *validator.Validate
}

func NewRecipientService(recipientRepo repository.RecipientRepository) RecipientService {
	return &recipientService{
		recipientRepo: recipientRepo,
		validate:      validator.New(),
	}
}

func (s *recipientService) clean(input RecipientInput) (RecipientInput, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	errs := make(map[string]string)
	switch {
	case input.Email == "":
		errs["email"] = msgRequired
	case s.validate.Var(input.Email, "email") != nil:
		errs["email"] = msgInvalidEmail
	case utf8.RuneCountInString(input.Email) > 254:
		errs["email"] = msgMaxLength(254, utf8.RuneCountInString(input.Email))
	}
	switch {
	case input.Name == "":
		errs["name"] = msgRequired
	case utf8.RuneCountInString(input.Name) > recipientNameMaxLength:
		errs["name"] = msgMaxLength(recipientNameMaxLength, utf8.RuneCountInString(input.Name))
	}

	if len(errs) > 0 {
		return input, &ValidationError{Fields: errs}
	}
	return input, nil
}

func (s *recipientService) List(ctx context.Context, filter repository.RecipientFilter) ([]model.EmailRecipient, error) {
	return s.recipientRepo.List(ctx, filter)
}

func (s *recipientService) Create(ctx context.Context, input RecipientInput) (*model.EmailRecipient, error) {
	input, err := s.clean(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.recipientRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Recipient creation failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrRecipientExists
	}

	recipient := &model.EmailRecipient{
		Email:    input.Email,
		Name:     input.Name,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		return nil, err
	}

	logger.Info("Recipient created", map[string]interface{}{
		"recipient_id": recipient.ID,
		"email":        recipient.Email,
		"is_active":    recipient.IsActive,
	})
	return recipient, nil
}

func (s *recipientService) Update(ctx context.Context, id uint, input RecipientInput) (*model.EmailRecipient, error) {
	input, err := s.clean(input)
	if err != nil {
		return nil, err
	}

	recipient, err := s.recipientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	if input.Email != recipient.Email {
		other, err := s.recipientRepo.FindByEmail(ctx, input.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrRecipientExists
		}
	}

	recipient.Email = input.Email
	recipient.Name = input.Name
	if input.IsActive != nil {
		recipient.IsActive = *input.IsActive
	}
	if err := s.recipientRepo.Update(ctx, recipient); err != nil {
		return nil, err
	}

	logger.Info("Recipient updated", map[string]interface{}{
		"recipient_id": recipient.ID,
		"is_active":    recipient.IsActive,
	})
	return recipient, nil
}

func (s *recipientService) Delete(ctx context.Context, id uint) error {
	if err := s.recipientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipientNotFound
		}
		return err
	}
	logger.Info("Recipient deleted", map[string]interface{}{
		"recipient_id": id,
	})
	return nil
}

// SetActive 선택된 id 전체를 한 번의 UPDATE로 변경
func (s *recipientService) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	return s.recipientRepo.SetActive(ctx, ids, active)
}

func (s *recipientService) SetActiveByEmail(ctx context.Context, emails []string, active bool) (int64, error) {
	cleaned := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	return s.recipientRepo.SetActiveByEmail(ctx, cleaned, active)
}

// Import 이메일 기준 upsert. is_active가 없으면 기존 상태 유지
func (s *recipientService) Import(ctx context.Context, entries []RecipientInput) (ImportResult, error) {
	var result ImportResult

	for _, entry := range entries {
		entry, err := s.clean(entry)
		if err != nil {
			return result, err
		}

		existing, err := s.recipientRepo.FindByEmail(ctx, entry.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}

		if existing == nil {
			if _, err := s.Create(ctx, entry); err != nil {
				return result, err
			}
			result.Created++
			continue
		}

		if _, err := s.Update(ctx, existing.ID, entry); err != nil {
			return result, err
		}
		result.Updated++
	}

	logger.Info("Recipients imported", map[string]interface{}{
		"created": result.Created,
		"updated": result.Updated,
	})
	return result, nil
}
