package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/marketing-survey/pkg/util"
	"github.com/spf13/cobra"
)

// hashPasswordCommand ADMIN_PASSWORD_HASH 값 생성
func hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Print a bcrypt hash for ADMIN_PASSWORD_HASH.

The password is read from the first line of stdin when no argument is given,
which keeps it out of shell history:

  read -s PW && echo "$PW" | surveyctl hash-password`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := util.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
