package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaboard/internal/trivia"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the cached session token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		token, ok, err := st.Entry(trivia.TokenKey).Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No session token cached.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the cached session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Entry(trivia.TokenKey).Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session token cleared.")
		return nil
	},
}

var tokenResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the session token, or reset it remotely with --remote",
	Long: `Without flags, drops the cached token and requests a fresh one.
With --remote, asks the API to reset the cached token so it can serve
every question again, keeping the token itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		tokens := newClient(cmd, cfg, st, cmd.ErrOrStderr()).Tokens()

		if remote {
			err := tokens.Reset(ctx)
			if errors.Is(err, trivia.ErrNoToken) {
				return fmt.Errorf("nothing to reset: %w", err)
			}
			if err != nil {
				return fmt.Errorf("reset token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session token reset.")
			return nil
		}

		tokens.Invalidate(ctx)
		token, ok := tokens.Get(ctx)
		if !ok {
			return fmt.Errorf("could not obtain a new session token")
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenResetCmd.Flags().Bool("remote", false, "Reset the existing token on the server instead of replacing it")

	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	tokenCmd.AddCommand(tokenResetCmd)
}
