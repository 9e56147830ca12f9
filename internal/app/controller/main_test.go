package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/internal/db"
	"github.com/ikkim/marketing-survey/internal/web"
	"github.com/ikkim/marketing-survey/pkg/mailer"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*mailer.Message
	err      error
}

func (f *fakeSender) Send(ctx context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return f.err
}

func (f *fakeSender) sent() []*mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mailer.Message(nil), f.messages...)
}

var errStoreDown = errors.New("database is unavailable")

type failingSurveyRepo struct {
	repository.SurveyRepository
}

func (failingSurveyRepo) Create(ctx context.Context, s *model.SurveyResponse) error {
	return errStoreDown
}

// testEnv wires real services over an in-memory database.
type testEnv struct {
	db            *gorm.DB
	surveyRepo    repository.SurveyRepository
	recipientRepo repository.RecipientRepository
	sender        *fakeSender
	surveys       service.SurveyService
	recipients    service.RecipientService
	exports       service.ExportService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:            testDB,
		surveyRepo:    repository.NewSurveyRepository(testDB),
		recipientRepo: repository.NewRecipientRepository(testDB),
		sender:        &fakeSender{},
	}
	notifier := service.NewNotificationService(env.recipientRepo, env.sender, web.MailTemplates(time.UTC), nil, nil)
	env.surveys = service.NewSurveyService(env.surveyRepo, notifier, service.SurveyServiceOptions{})
	env.recipients = service.NewRecipientService(env.recipientRepo)
	env.exports = service.NewExportService(env.surveyRepo, time.UTC, nil)
	return env
}

func (env *testEnv) countSurveys(t *testing.T) int64 {
	t.Helper()
	n, err := env.surveyRepo.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (env *testEnv) addRecipient(t *testing.T, email string, active bool) *model.EmailRecipient {
	t.Helper()
	r := &model.EmailRecipient{Email: email, Name: email, IsActive: active}
	require.NoError(t, env.recipientRepo.Create(context.Background(), r))
	return r
}

func validSurveyValues() map[string]string {
	return map[string]string{
		"store_name":            "카페 모카",
		"owner_name":            "김철수",
		"phone_number":          "010-1234-5678",
		"email":                 "owner@example.com",
		"business_type":         "cafe",
		"store_size":            "small",
		"location_type":         "downtown",
		"naver_registered":      "on",
		"naver_photos_quality":  "3",
		"naver_news_update":     "weekly",
		"instagram_video_count": "4",
	}
}
