package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

const defaultTimeout = 10 * time.Second

// ErrNoURLs is returned when push alerts are requested without any service URL.
var ErrNoURLs = errors.New("push: at least one service URL is required")

type messageSender interface {
	Send(message string, params *stypes.Params) []error
}

// Alerter posts a one-line alert to chat services (Slack, Telegram, Discord...) via shoutrrr URLs.
type Alerter struct {
	sender messageSender
}

func New(urls []string, timeout time.Duration) (*Alerter, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	sender, err := shoutrrr.CreateSender(slices.Clone(urls)...)
	if err != nil {
		// shoutrrr errors can echo tokens embedded in the URL
		return nil, errors.New("push: invalid service URL")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	sender.Timeout = timeout
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &Alerter{sender: sender}, nil
}

// AlertMessage 새 설문 접수: {매장명} - {대표자명} ({업종})
func AlertMessage(survey *model.SurveyResponse) string {
	return fmt.Sprintf("새 설문 접수: %s - %s (%s)", survey.StoreName, survey.OwnerName, survey.BusinessType.Label())
}

func (a *Alerter) Alert(ctx context.Context, survey *model.SurveyResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := stypes.Params{}
	params.SetTitle("마케팅 설문조사")

	// the router applies its own timeout
	return errors.Join(a.sender.Send(AlertMessage(survey), &params)...)
}
