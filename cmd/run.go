package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaboard/internal/app"
	"github.com/abhisek/triviaboard/internal/dashboard"
	"github.com/abhisek/triviaboard/internal/store"
	"github.com/abhisek/triviaboard/internal/trivia"
)

// loadConfig reads TRIVIABOARD_* env vars and applies the --amount flag.
func loadConfig(cmd *cobra.Command) (trivia.Config, error) {
	cfg, err := trivia.ConfigFromEnv()
	if err != nil {
		return trivia.Config{}, fmt.Errorf("load config: %w", err)
	}
	if amount, _ := cmd.Flags().GetInt("amount"); amount != 0 {
		cfg.Amount = amount
	}
	if err := cfg.Validate(); err != nil {
		return trivia.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newClient builds a trivia client whose requests are recorded in st.
// Warnings go to warn.
func newClient(cmd *cobra.Command, cfg trivia.Config, st *store.Store, warn io.Writer) *trivia.Client {
	transport := trivia.WithLogging(trivia.NewHTTPTransport(cfg, nil), st.EventRepo(), warn)

	var tokens trivia.TokenStore = st.Entry(trivia.TokenKey)
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		tokens = &trivia.MemoryTokenStore{}
	}
	return trivia.NewClient(cfg, transport, tokens, trivia.WithWarnings(warn))
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// Warnings would corrupt the alt screen; the request log keeps them.
	client := newClient(cmd, cfg, st, io.Discard)

	return app.Run(app.Options{
		Loader:    dashboard.NewLoader(client, cfg.Amount),
		EventRepo: st.EventRepo(),
	})
}
