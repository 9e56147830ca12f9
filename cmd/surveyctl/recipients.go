package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// recipientFile is the import format:
//
//	recipients:
//	  - email: marketing@example.com
//	    name: 마케팅팀
//	    is_active: true
type recipientFile struct {
	Recipients []service.RecipientInput `yaml:"recipients"`
}

func recipientsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipients",
		Aliases: []string{"recipient"},
		Short:   "Manage notification email recipients",
	}
	cmd.AddCommand(
		recipientsListCommand(a),
		recipientsAddCommand(a),
		recipientsStatusCommand(a, "activate", true),
		recipientsStatusCommand(a, "deactivate", false),
		recipientsImportCommand(a),
	)
	return cmd
}

func recipientsListCommand(a *app) *cobra.Command {
	var (
		status string
		query  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.RecipientFilter{Search: query}
			switch status {
			case "all", "":
			case "active":
				active := true
				filter.Active = &active
			case "inactive":
				active := false
				filter.Active = &active
			default:
				return fmt.Errorf("invalid status: %s", status)
			}

			recipients, err := service.NewRecipientService(a.recipientRepo()).List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACTIVE")
			for _, r := range recipients {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", r.ID, r.Email, r.Name, r.IsActive)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, active or inactive")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search email or name")
	return cmd
}

func recipientsAddCommand(a *app) *cobra.Command {
	var (
		name     string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <email> --name <name>",
		Short: "Add a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active := !inactive
			recipient, err := service.NewRecipientService(a.recipientRepo()).Create(cmd.Context(), service.RecipientInput{
				Email:    args[0],
				Name:     name,
				IsActive: &active,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added recipient %d <%s>\n", recipient.ID, recipient.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create without receiving notifications")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func recipientsStatusCommand(a *app, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>...",
		Short: fmt.Sprintf("Mark recipients as %s", map[bool]string{true: "active", false: "inactive"}[active]),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := service.NewRecipientService(a.recipientRepo()).SetActiveByEmail(cmd.Context(), args, active)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d recipient(s) updated\n", n)
			return nil
		},
	}
}

func recipientsImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or update recipients from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var file recipientFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(file.Recipients) == 0 {
				return fmt.Errorf("%s: no recipients", args[0])
			}

			result, err := service.NewRecipientService(a.recipientRepo()).Import(cmd.Context(), file.Recipients)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d\n", result.Created, result.Updated)
			return nil
		},
	}
}
