package main

import (
	"fmt"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/internal/web"
	"github.com/spf13/cobra"
)

func digestCommand(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Email the daily summary for one day (default: yesterday)",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().In(a.loc).AddDate(0, 0, -1)
			if date != "" {
				t, err := parseDay(date, a.loc)
				if err != nil {
					return err
				}
				day = t
			}

			digestService := service.NewDigestService(
				a.surveyRepo(),
				a.recipientRepo(),
				a.sender,
				web.MailTemplates(a.loc),
				a.loc,
				nil,
			)
			result, err := digestService.SendDailyDigest(cmd.Context(), day)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d response(s), %s", result.Day, result.Surveys, result.Outcome)
			if len(result.Recipients) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " to %d recipient(s)", len(result.Recipients))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to summarize, YYYY-MM-DD")
	return cmd
}
