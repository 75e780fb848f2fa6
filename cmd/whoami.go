package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/auth"
	"github.com/abhisek/quizdesk/internal/config"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity in the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		id, err := auth.Parse(cfg.Token)
		if err != nil {
			return fmt.Errorf("read token from %s: %w", config.EnvToken, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:    %s\n", id.UserID)
		if id.Email != "" {
			fmt.Fprintf(out, "Email:   %s\n", id.Email)
		}
		fmt.Fprintf(out, "Role:    %s\n", id.Role)
		if !id.ExpiresAt.IsZero() {
			state := "valid"
			if id.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Fprintf(out, "Expires: %s (%s)\n", id.ExpiresAt.Local().Format(time.RFC1123), state)
		}
		fmt.Fprintf(out, "Server:  %s\n", cfg.APIURL)
		return nil
	},
}
