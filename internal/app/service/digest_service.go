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

type DigestResult struct {
	Day        string
	Outcome    NotifyOutcome
	Surveys    int
	Recipients []string
}

// DigestService 하루 동안 접수된 설문 요약 메일
type DigestService interface {
	SendDailyDigest(ctx context.Context, day time.Time) (*DigestResult, error)
}

type digestService struct {
	surveyRepo    repository.SurveyRepository
	recipientRepo repository.RecipientRepository
	sender        mailer.Sender
	templates     *template.Template
	loc           *time.Location
	metrics       *metrics.SurveyMetrics
}

func NewDigestService(
	surveyRepo repository.SurveyRepository,
	recipientRepo repository.RecipientRepository,
	sender mailer.Sender,
	templates *template.Template,
	loc *time.Location,
	m *metrics.SurveyMetrics,
) DigestService {
	if loc == nil {
		loc = time.UTC
	}
	return &digestService{
		surveyRepo:    surveyRepo,
		recipientRepo: recipientRepo,
		sender:        sender,
		templates:     templates,
		loc:           loc,
		metrics:       m,
	}
}

// DayRange loc 기준 해당 날짜의 [00:00, 다음날 00:00) 구간
func DayRange(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *digestService) SendDailyDigest(ctx context.Context, day time.Time) (*DigestResult, error) {
	start, end := DayRange(day, s.loc)
	result := &DigestResult{Day: start.Format("2006-01-02"), Outcome: OutcomeSkipped}
	began := time.Now()

	surveys, _, err := s.surveyRepo.List(ctx, repository.SurveyFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("load surveys for digest: %w", err)
	}
	result.Surveys = len(surveys)
	if len(surveys) == 0 {
		logger.Info("No surveys for digest, skipped", map[string]interface{}{"day": result.Day})
		return result, nil
	}

	recipients, err := s.recipientRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active recipients: %w", err)
	}
	if len(recipients) == 0 {
		logger.Info("No active recipients for digest, skipped", map[string]interface{}{"day": result.Day})
		return result, nil
	}

	// oldest first reads better in a daily summary
	ordered := make([]model.SurveyResponse, len(surveys))
	for i := range surveys {
		ordered[len(surveys)-1-i] = surveys[i]
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "digest.html", map[string]interface{}{
		"Day":     result.Day,
		"Surveys": ordered,
	}); err != nil {
		return nil, fmt.Errorf("render digest email: %w", err)
	}

	for _, r := range recipients {
		result.Recipients = append(result.Recipients, r.Email)
	}

	err = s.sender.Send(ctx, &mailer.Message{
		To:      result.Recipients,
		Subject: fmt.Sprintf("[설문조사] %s 일일 요약 (%d건)", result.Day, len(surveys)),
		HTML:    body.String(),
	})
	if err != nil {
		result.Outcome = OutcomeFailed
		s.metrics.RecordNotification("digest", string(OutcomeFailed), time.Since(began))
		logger.Error("Failed to send daily digest", err, map[string]interface{}{"day": result.Day})
		return result, err
	}

	result.Outcome = OutcomeSent
	s.metrics.RecordNotification("digest", string(OutcomeSent), time.Since(began))
	logger.Info("Daily digest sent", map[string]interface{}{
		"day":        result.Day,
		"surveys":    len(surveys),
		"recipients": len(result.Recipients),
	})
	return result, nil
}
