package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/spf13/cobra"
)

func exportCommand(a *app) *cobra.Command {
	var (
		format string
		out    string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export survey responses to CSV or XLSX",
		Long: `Export every stored survey response, newest first.

Examples:
  surveyctl export
  surveyctl export --format xlsx --out responses.xlsx
  surveyctl export --from 2024-05-01 --to 2024-05-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter repository.SurveyFilter
			if from != "" {
				t, err := parseDay(from, a.loc)
				if err != nil {
					return err
				}
				filter.From = &t
			}
			if to != "" {
				t, err := parseDay(to, a.loc)
				if err != nil {
					return err
				}
				// 종료일 포함
				end := t.AddDate(0, 0, 1)
				filter.To = &end
			}

			exportService := service.NewExportService(a.surveyRepo(), a.loc, nil)

			var (
				buf      *bytes.Buffer
				filename string
				err      error
			)
			switch format {
			case "csv":
				buf, filename, err = exportService.ExportCSV(cmd.Context(), filter)
			case "xlsx":
				buf, filename, err = exportService.ExportXLSX(cmd.Context(), filter)
			default:
				return fmt.Errorf("invalid format: %s", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = filename
			} else if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
				out = filepath.Join(out, filename)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default: generated filename)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day (inclusive), YYYY-MM-DD")
	return cmd
}
