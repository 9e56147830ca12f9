package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"gorm.io/gorm"
)

// SurveyFilter 관리자 목록/내보내기 조회 조건
// From/To는 created_at 기준 [From, To) 구간
type SurveyFilter struct {
	BusinessType     model.BusinessType
	StoreSize        model.StoreSize
	LocationType     model.LocationType
	NaverRegistered  *bool
	GoogleRegistered *bool
	From             *time.Time
	To               *time.Time
	Search           string
	Limit            int
	Offset           int
}

type SurveyRepository interface {
	Create(ctx context.Context, survey *model.SurveyResponse) error
	List(ctx context.Context, filter SurveyFilter) ([]model.SurveyResponse, int64, error)
	FindByID(ctx context.Context, id uint) (*model.SurveyResponse, error)
	Update(ctx context.Context, id uint, survey *model.SurveyResponse) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

// Create 설문 응답 저장. id와 생성/수정 시각은 항상 여기서 부여
func (r *surveyRepository) Create(ctx context.Context, survey *model.SurveyResponse) error {
	logger.Debug("Creating survey response in database", map[string]interface{}{
		"store_name":    survey.StoreName,
		"business_type": survey.BusinessType,
	})

	survey.ID = 0
	survey.CreatedAt = time.Time{}
	survey.UpdatedAt = time.Time{}

	if err := r.db.WithContext(ctx).Create(survey).Error; err != nil {
		logger.Error("Failed to create survey response in database", err, map[string]interface{}{
			"store_name": survey.StoreName,
		})
		return err
	}

	logger.Debug("Survey response created in database", map[string]interface{}{
		"survey_id": survey.ID,
	})
	return nil
}

func (r *surveyRepository) List(ctx context.Context, filter SurveyFilter) ([]model.SurveyResponse, int64, error) {
	logger.Debug("Listing survey responses", map[string]interface{}{
		"business_type": filter.BusinessType,
		"search":        filter.Search,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := applySurveyFilter(r.db.WithContext(ctx).Model(&model.SurveyResponse{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count survey responses", err, nil)
		return nil, 0, err
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var surveys []model.SurveyResponse
	if err := query.Find(&surveys).Error; err != nil {
		logger.Error("Failed to list survey responses", err, nil)
		return nil, 0, err
	}

	logger.Debug("Survey responses listed", map[string]interface{}{
		"count": len(surveys),
		"total": total,
	})
	return surveys, total, nil
}

func applySurveyFilter(query *gorm.DB, filter SurveyFilter) *gorm.DB {
	if filter.BusinessType != "" {
		query = query.Where("business_type = ?", filter.BusinessType)
	}
	if filter.StoreSize != "" {
		query = query.Where("store_size = ?", filter.StoreSize)
	}
	if filter.LocationType != "" {
		query = query.Where("location_type = ?", filter.LocationType)
	}
	if filter.NaverRegistered != nil {
		query = query.Where("naver_registered = ?", *filter.NaverRegistered)
	}
	if filter.GoogleRegistered != nil {
		query = query.Where("google_registered = ?", *filter.GoogleRegistered)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(store_name) LIKE ? OR LOWER(owner_name) LIKE ? OR phone_number LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

func (r *surveyRepository) FindByID(ctx context.Context, id uint) (*model.SurveyResponse, error) {
	logger.Debug("Finding survey response by ID", map[string]interface{}{
		"survey_id": id,
	})

	var survey model.SurveyResponse
	if err := r.db.WithContext(ctx).First(&survey, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn("Survey response not found", map[string]interface{}{
				"survey_id": id,
			})
		} else {
			logger.Error("Failed to find survey response", err, map[string]interface{}{
				"survey_id": id,
			})
		}
		return nil, err
	}
	return &survey, nil
}

// Update id, created_at을 제외한 전체 컬럼 갱신
func (r *surveyRepository) Update(ctx context.Context, id uint, survey *model.SurveyResponse) error {
	logger.Debug("Updating survey response in database", map[string]interface{}{
		"survey_id": id,
	})

	result := r.db.WithContext(ctx).
		Model(&model.SurveyResponse{ID: id}).
		Select("*").
		Omit("id", "created_at").
		Updates(survey)
	if result.Error != nil {
		logger.Error("Failed to update survey response in database", result.Error, map[string]interface{}{
			"survey_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Survey response updated in database", map[string]interface{}{
		"survey_id": id,
	})
	return nil
}

func (r *surveyRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting survey response from database", map[string]interface{}{
		"survey_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.SurveyResponse{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete survey response from database", result.Error, map[string]interface{}{
			"survey_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Survey response deleted from database", map[string]interface{}{
		"survey_id": id,
	})
	return nil
}

func (r *surveyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.SurveyResponse{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count survey responses", err, nil)
		return 0, err
	}
	return count, nil
}
