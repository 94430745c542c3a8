package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/burnlog/internal/client"
	"github.com/dhabedank/burnlog/internal/config"
	"github.com/dhabedank/burnlog/internal/form"
	"github.com/dhabedank/burnlog/internal/storage"
)

var (
	configFile string // --config on every command
	serverURL  string // --server
	dbPath     string // --db
	ephemeral  bool   // --ephemeral
)

func addConfigFlag(c *cobra.Command) {
	c.Flags().StringVar(&configFile, "config", "", "Config file (default: .burnlog.yaml or ~/.burnlog.yaml)")
}

// addClientFlags registers the flags of commands that talk to the gateway
// and keep local history.
func addClientFlags(c *cobra.Command) {
	addConfigFlag(c)
	c.Flags().StringVar(&serverURL, "server", "", "Gateway URL (default http://localhost:3000)")
	c.Flags().StringVar(&dbPath, "db", "", "History database path (default ~/.burnlog/burnlog.db)")
	c.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep history in memory only")
}

// loadConfig merges defaults, the config file, the environment and any
// explicitly set flags, in that order.
func loadConfig(c *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.FindPath(configFile))
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	flags := c.Flags()
	if flags.Lookup("server") != nil && flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if flags.Lookup("db") != nil && flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	return cfg, cfg.Validate()
}

// openStore opens the history database, or an in-memory store with
// --ephemeral. The returned func closes it.
func openStore(cfg config.Config) (storage.KV, func(), error) {
	if ephemeral {
		return storage.NewMemoryKV(), func() {}, nil
	}
	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() { _ = kv.Close() }, nil
}

// newController builds a loaded form controller against the configured
// gateway and store.
func newController(c *cobra.Command, cfg config.Config) (*form.Controller, func(), error) {
	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(c.ErrOrStderr(), "", 0)
	ctrl := form.NewController(client.New(cfg.ServerURL, nil), storage.NewHistoryStore(kv, logger))
	if err := ctrl.Load(c.Context()); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}
	return ctrl, closeStore, nil
}

// promptConfirm asks on out and reads y/n from in. Anything but y/yes is no.
func promptConfirm(in io.Reader, out io.Writer) form.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}
