package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/adam-cli/internal/config"
	"github.com/KaramelBytes/adam-cli/internal/project"
	"github.com/KaramelBytes/adam-cli/internal/rest"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides for config values
	flagBaseURL        string
	flagHTTPTimeoutSec int
	flagOutput         string

	// Loaded configuration
	cfg *cfgpkg.Global
	// cfgErr holds the reason cfg is nil
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:           "adam",
	Short:         "adam CLI: manage projects on a remote adam service",
	Long:          `adam lists, inspects, creates and deletes projects held by a remote adam service over its REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	// Flag overrides are checked before any request reaches the service.
	// Assigned here rather than in the literal to avoid an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return validateOverrides()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.adam/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "service base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format: table, json or yaml (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report cfgErr themselves
		cfg, cfgErr = nil, err
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg, cfgErr = c, nil

	f := rootCmd.PersistentFlags()
	if f.Changed("base-url") && flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("output") && flagOutput != "" {
		cfg.Output = strings.ToLower(flagOutput)
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

// validateOverrides rejects flag values that config set would also reject.
func validateOverrides() error {
	f := rootCmd.PersistentFlags()
	if f.Changed("output") {
		out := strings.ToLower(flagOutput)
		if !slices.Contains(cfgpkg.OutputFormats, out) {
			return fmt.Errorf("invalid --output: %q (use one of %s)", flagOutput, strings.Join(cfgpkg.OutputFormats, ", "))
		}
	}
	if f.Changed("base-url") {
		if err := cfgpkg.ValidateBaseURL(flagBaseURL); err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
	}
	return nil
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	if cfgErr != nil {
		return nil, fmt.Errorf("configuration not loaded: %w", cfgErr)
	}
	return nil, errors.New("configuration not loaded")
}

func newLogger(c *cfgpkg.Global) hclog.Logger {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "adam",
		Level:  level,
		Output: rootCmd.ErrOrStderr(),
	})
}

// newProjects wires the configured HTTP transport into a Projects facade.
func newProjects() (*project.Projects, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(c)
	client, err := rest.NewClient(rest.Options{
		BaseURL: c.BaseURL,
		Token:   c.APIToken,
		Timeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("using service", "base_url", client.BaseURL())
	return project.New(client, project.WithLogger(logger.Named("projects"))), nil
}
