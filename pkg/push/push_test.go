package push

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/marketing-survey/internal/app/model"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	messages []string
	titles   []string
	errs     []error
}

func (f *fakeSender) Send(message string, params *stypes.Params) []error {
	f.messages = append(f.messages, message)
	title, _ := params.Title()
	f.titles = append(f.titles, title)
	return f.errs
}

func sample() *model.SurveyResponse {
	return &model.SurveyResponse{StoreName: "카페 모카", OwnerName: "김철수", BusinessType: model.BusinessCafe}
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t, "새 설문 접수: 카페 모카 - 김철수 ("+model.BusinessCafe.Label()+")", AlertMessage(sample()))
}

func TestAlerter_Alert(t *testing.T) {
	sender := &fakeSender{}
	a := &Alerter{sender: sender}

	require.NoError(t, a.Alert(context.Background(), sample()))
	assert.Equal(t, []string{AlertMessage(sample())}, sender.messages)
	assert.Equal(t, []string{"마케팅 설문조사"}, sender.titles)
}

func TestAlerter_AlertErrors(t *testing.T) {
	slackErr := errors.New("slack: 404")
	a := &Alerter{sender: &fakeSender{errs: []error{nil, slackErr}}}

	assert.ErrorIs(t, a.Alert(context.Background(), sample()), slackErr)
}

func TestAlerter_CanceledContext(t *testing.T) {
	sender := &fakeSender{}
	a := &Alerter{sender: sender}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.Alert(ctx, sample()), context.Canceled)
	assert.Empty(t, sender.messages)
}

func TestNew(t *testing.T) {
	_, err := New(nil, 0)
	assert.ErrorIs(t, err, ErrNoURLs)

	_, err = New([]string{"unknown-service://token@host"}, 0)
	assert.Error(t, err)

	a, err := New([]string{"logger://"}, 0)
	require.NoError(t, err)
	assert.NotNil(t, a)
}
