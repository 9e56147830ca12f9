package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/db"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/ikkim/marketing-survey/pkg/mailer"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const annotationOffline = "offline"

// app holds what subcommands share. Fields left nil are built from the
// environment on first use.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	sender mailer.Sender
	loc    *time.Location
}

func newRootCommand(a *app) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "surveyctl",
		Short:        "Marketing survey admin CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.Initialize(logger.Config{
				Level:  level,
				Format: "console",
				Output: os.Stderr,
			})
			// DB, SMTP가 필요 없는 명령
			if cmd.Annotations[annotationOffline] == "true" {
				return nil
			}
			return a.init()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		recipientsCommand(a),
		exportCommand(a),
		digestCommand(a),
		hashPasswordCommand(),
	)
	return rootCmd
}

func (a *app) init() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}

	if a.loc == nil {
		loc, err := a.cfg.Location()
		if err != nil {
			return fmt.Errorf("timezone %q: %w", a.cfg.Server.Timezone, err)
		}
		a.loc = loc
	}

	if a.db == nil {
		if err := db.Initialize(&a.cfg.Database); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		a.db = db.GetDB()
	}

	if a.sender == nil {
		a.sender = mailer.NewSender(&a.cfg.SMTP)
	}
	return nil
}

func (a *app) surveyRepo() repository.SurveyRepository {
	return repository.NewSurveyRepository(a.db)
}

func (a *app) recipientRepo() repository.RecipientRepository {
	return repository.NewRecipientRepository(a.db)
}

// parseDay reads YYYY-MM-DD in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
