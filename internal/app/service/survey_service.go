package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSurveyNotFound = errors.New("survey response not found")
	ErrSurveyPersist  = errors.New("failed to store survey response")
)

// SubmissionState 제출 처리 단계
type SubmissionState string

const (
	StateReceived        SubmissionState = "received"
	StateValidated       SubmissionState = "validated"
	StateRejected        SubmissionState = "rejected"
	StatePersisted       SubmissionState = "persisted"
	StateNotifySucceeded SubmissionState = "notify_succeeded"
	StateNotifyFailed    SubmissionState = "notify_failed"
)

type SubmitResult struct {
	State        SubmissionState
	Survey       *model.SurveyResponse
	Errors       map[string]string
	Notification NotifyResult
}

// SurveyArchiver 저장된 응답 사본을 DB 밖에 보관
type SurveyArchiver interface {
	Archive(ctx context.Context, survey *model.SurveyResponse) (string, error)
}

// SurveyAlerter 새 응답 푸시 알림
type SurveyAlerter interface {
	Alert(ctx context.Context, survey *model.SurveyResponse) error
}

// SurveyBroadcaster 접속 중인 관리자에게 새 응답 전달
type SurveyBroadcaster interface {
	BroadcastSurvey(survey *model.SurveyResponse)
}

type SurveyService interface {
	Submit(ctx context.Context, values map[string]string) (*SubmitResult, error)
	Get(ctx context.Context, id uint) (*model.SurveyResponse, error)
	List(ctx context.Context, filter repository.SurveyFilter) ([]model.SurveyResponse, int64, error)
	Update(ctx context.Context, id uint, values map[string]string) (*model.SurveyResponse, error)
	Delete(ctx context.Context, id uint) error
	// Wait blocks until background notifications finish.
	Wait()
}

type SurveyServiceOptions struct {
	AsyncNotify   bool
	NotifyTimeout time.Duration
	Archiver      SurveyArchiver
	Alerter       SurveyAlerter
	Broadcaster   SurveyBroadcaster
	Reporter      ErrorReporter
	Metrics       *metrics.SurveyMetrics
}

type surveyService struct {
	surveyRepo repository.SurveyRepository
	form       *SurveyForm
	notifier   NotificationService
	opts       SurveyServiceOptions
	wg         sync.WaitGroup
}

func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	notifier NotificationService,
	opts SurveyServiceOptions,
) SurveyService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 30 * time.Second
	}
	return &surveyService{
		surveyRepo: surveyRepo,
		form:       NewSurveyForm(),
		notifier:   notifier,
		opts:       opts,
	}
}

// Submit 접수 → 검증 → 저장 → 알림 순서로 처리
// 제출 실패는 검증, 저장 단계에서만 발생
func (s *surveyService) Submit(ctx context.Context, values map[string]string) (*SubmitResult, error) {
	result := &SubmitResult{State: StateReceived}

	survey, err := s.form.Validate(values)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			result.State = StateRejected
			result.Errors = verr.Fields
			s.opts.Metrics.RecordSubmission(metrics.ResultRejected)
			logger.Info("Survey submission rejected", map[string]interface{}{
				"fields": len(verr.Fields),
			})
		}
		return result, err
	}
	result.State = StateValidated

	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		s.opts.Metrics.RecordSubmission(metrics.ResultPersistFail)
		logger.Error("Failed to persist survey submission", err, map[string]interface{}{
			"store_name": survey.StoreName,
		})
		return result, fmt.Errorf("%w: %w", ErrSurveyPersist, err)
	}
	result.State = StatePersisted
	result.Survey = survey
	s.opts.Metrics.RecordSubmission(metrics.ResultAccepted)

	logger.Info("Survey submission stored", map[string]interface{}{
		"survey_id":     survey.ID,
		"store_name":    survey.StoreName,
		"business_type": survey.BusinessType,
	})

	if s.opts.AsyncNotify {
		// state stays Persisted; the outcome is only logged
		result.Notification = NotifyResult{Outcome: OutcomeQueued}

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer cancel()
			s.notify(bg, survey)
			s.afterPersist(bg, survey)
		}()
		return result, nil
	}

	result.Notification = s.notify(ctx, survey)
	if result.Notification.Succeeded() {
		result.State = StateNotifySucceeded
	} else {
		result.State = StateNotifyFailed
	}
	s.afterPersist(ctx, survey)

	return result, nil
}

func (s *surveyService) notify(ctx context.Context, survey *model.SurveyResponse) NotifyResult {
	if s.notifier == nil {
		return NotifyResult{Outcome: OutcomeSkipped}
	}
	return s.notifier.Notify(ctx, survey)
}

// afterPersist runs the optional side channels. None of them can fail a submission.
func (s *surveyService) afterPersist(ctx context.Context, survey *model.SurveyResponse) {
	if s.opts.Archiver != nil {
		if key, err := s.opts.Archiver.Archive(ctx, survey); err != nil {
			s.sideEffectFailed("archive", survey, err)
		} else {
			logger.Debug("Survey archived", map[string]interface{}{
				"survey_id": survey.ID,
				"key":       key,
			})
		}
	}

	if s.opts.Alerter != nil {
		start := time.Now()
		if err := s.opts.Alerter.Alert(ctx, survey); err != nil {
			s.opts.Metrics.RecordNotification("push", string(OutcomeFailed), time.Since(start))
			s.sideEffectFailed("push", survey, err)
		} else {
			s.opts.Metrics.RecordNotification("push", string(OutcomeSent), time.Since(start))
		}
	}

	if s.opts.Broadcaster != nil {
		s.opts.Broadcaster.BroadcastSurvey(survey)
	}
}

func (s *surveyService) sideEffectFailed(component string, survey *model.SurveyResponse, err error) {
	logger.Warn("Survey side effect failed", map[string]interface{}{
		"component": component,
		"survey_id": survey.ID,
		"error":     err.Error(),
	})
	if s.opts.Reporter != nil {
		s.opts.Reporter.CaptureError(err, map[string]string{
			"component": component,
			"survey_id": fmt.Sprint(survey.ID),
		})
	}
}

func (s *surveyService) Wait() {
	s.wg.Wait()
}

func (s *surveyService) Get(ctx context.Context, id uint) (*model.SurveyResponse, error) {
	survey, err := s.surveyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) List(ctx context.Context, filter repository.SurveyFilter) ([]model.SurveyResponse, int64, error) {
	return s.surveyRepo.List(ctx, filter)
}

// Update 전체 폼을 다시 검증한 뒤 덮어쓴다
func (s *surveyService) Update(ctx context.Context, id uint, values map[string]string) (*model.SurveyResponse, error) {
	survey, err := s.form.Validate(values)
	if err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Update(ctx, id, survey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	logger.Info("Survey response updated", map[string]interface{}{
		"survey_id": id,
	})
	return s.Get(ctx, id)
}

func (s *surveyService) Delete(ctx context.Context, id uint) error {
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSurveyNotFound
		}
		return err
	}

	logger.Info("Survey response deleted", map[string]interface{}{
		"survey_id": id,
	})
	return nil
}
