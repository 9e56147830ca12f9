package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/robfig/cron/v3"
)

const digestTimeout = 2 * time.Minute

// DigestScheduler 전날 접수된 설문 요약 메일 스케줄러
type DigestScheduler struct {
	cron          *cron.Cron
	schedule      string
	loc           *time.Location
	digestService service.DigestService
	now           func() time.Time
}

// NewDigestScheduler schedule은 앱 타임존 기준 5필드 cron 표현식 (예: "0 9 * * *")
func NewDigestScheduler(digestService service.DigestService, schedule string, loc *time.Location) *DigestScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DigestScheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		schedule:      schedule,
		loc:           loc,
		digestService: digestService,
		now:           time.Now,
	}
}

// Start 스케줄러 시작
func (s *DigestScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		logger.Error("Failed to add cron job for daily digest", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Digest scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"timezone": s.loc.String(),
	})
	return nil
}

// run sends the digest for the previous calendar day.
func (s *DigestScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	day := s.now().In(s.loc).AddDate(0, 0, -1)
	logger.Info("Starting scheduled daily digest", map[string]interface{}{
		"day": day.Format("2006-01-02"),
	})

	result, err := s.digestService.SendDailyDigest(ctx, day)
	if err != nil {
		logger.Error("Failed to send daily digest from scheduler", err)
		return
	}

	logger.Info("Scheduled daily digest finished", map[string]interface{}{
		"day":     result.Day,
		"outcome": result.Outcome,
		"surveys": result.Surveys,
	})
}

// Stop 실행 중인 요약 발송이 끝날 때까지 대기
func (s *DigestScheduler) Stop() {
	logger.Info("Stopping digest scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Digest scheduler stopped", nil)
}
