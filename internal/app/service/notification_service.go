package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/ikkim/marketing-survey/pkg/mailer"
)

// NotifyOutcome 알림 발송 결과
type NotifyOutcome string

const (
	OutcomeSent    NotifyOutcome = "sent"
	OutcomeSkipped NotifyOutcome = "skipped" // 활성 수신자 없음
	OutcomeFailed  NotifyOutcome = "failed"
	OutcomeQueued  NotifyOutcome = "queued" // 비동기 모드
)

type NotifyResult struct {
	Outcome    NotifyOutcome `json:"outcome"`
	Recipients []string      `json:"recipients,omitempty"`
	Err        error         `json:"-"`
}

// Succeeded 수신자가 없는 경우도 성공으로 본다
func (r NotifyResult) Succeeded() bool {
	return r.Outcome != OutcomeFailed
}

// ErrorReporter 제출자에게는 노출하지 않는 실패를 수집
type ErrorReporter interface {
	CaptureError(err error, tags map[string]string)
}

type NotificationService interface {
	Notify(ctx context.Context, survey *model.SurveyResponse) NotifyResult
}

type notificationService struct {
	recipientRepo repository.RecipientRepository
	sender        mailer.Sender
	templates     *template.Template
	reporter      ErrorReporter
	metrics       *metrics.SurveyMetrics
}

func NewNotificationService(
	recipientRepo repository.RecipientRepository,
	sender mailer.Sender,
	templates *template.Template,
	reporter ErrorReporter,
	m *metrics.SurveyMetrics,
) NotificationService {
	return &notificationService{
		recipientRepo: recipientRepo,
		sender:        sender,
		templates:     templates,
		reporter:      reporter,
		metrics:       m,
	}
}

// SurveySubject 알림 메일 제목
func SurveySubject(survey *model.SurveyResponse) string {
	return fmt.Sprintf("[설문조사] %s - %s", survey.StoreName, survey.OwnerName)
}

// RenderSurveyEmail 전체 응답을 담은 HTML 본문 렌더링
func RenderSurveyEmail(templates *template.Template, survey *model.SurveyResponse) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "survey.html", map[string]interface{}{
		"Survey":   survey,
		"Sections": model.SurveySections,
	})
	if err != nil {
		return "", fmt.Errorf("render survey email: %w", err)
	}
	return buf.String(), nil
}

// Notify 에러를 반환하거나 panic하지 않는다. 실패는 결과에 담긴다
func (s *notificationService) Notify(ctx context.Context, survey *model.SurveyResponse) (result NotifyResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = NotifyResult{Outcome: OutcomeFailed, Err: fmt.Errorf("notification panic: %v", r)}
		}
		s.finish(survey, result, time.Since(start))
	}()

	html, err := RenderSurveyEmail(s.templates, survey)
	if err != nil {
		return NotifyResult{Outcome: OutcomeFailed, Err: err}
	}

	recipients, err := s.recipientRepo.FindActive(ctx)
	if err != nil {
		return NotifyResult{Outcome: OutcomeFailed, Err: fmt.Errorf("load active recipients: %w", err)}
	}
	s.metrics.SetActiveRecipients(len(recipients))

	if len(recipients) == 0 {
		return NotifyResult{Outcome: OutcomeSkipped}
	}

	addresses := make([]string, 0, len(recipients))
	for _, r := range recipients {
		addresses = append(addresses, r.Email)
	}

	msg := &mailer.Message{
		To:      addresses,
		Subject: SurveySubject(survey),
		HTML:    html,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return NotifyResult{Outcome: OutcomeFailed, Recipients: addresses, Err: err}
	}

	return NotifyResult{Outcome: OutcomeSent, Recipients: addresses}
}

func (s *notificationService) finish(survey *model.SurveyResponse, result NotifyResult, elapsed time.Duration) {
	s.metrics.RecordNotification("email", string(result.Outcome), elapsed)

	fields := map[string]interface{}{
		"survey_id":  survey.ID,
		"outcome":    result.Outcome,
		"recipients": len(result.Recipients),
		"elapsed_ms": elapsed.Milliseconds(),
	}

	switch result.Outcome {
	case OutcomeFailed:
		fields["error"] = result.Err.Error()
		logger.Warn("Survey notification failed", fields)
		if s.reporter != nil {
			s.reporter.CaptureError(result.Err, map[string]string{
				"component": "notification",
				"survey_id": fmt.Sprint(survey.ID),
			})
		}
	case OutcomeSkipped:
		logger.Info("No active recipients, notification skipped", fields)
	default:
		logger.Info("Survey notification sent", fields)
	}
}
