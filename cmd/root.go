package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debiasdaily/debias/internal/config"
	"github.com/debiasdaily/debias/internal/logger"
	"github.com/debiasdaily/debias/internal/service"
	"github.com/debiasdaily/debias/internal/store"
)

// cardWidth is the width of rendered bias cards and bars.
const cardWidth = 72

var rootCmd = &cobra.Command{
	Use:   "debias",
	Short: "Learn one cognitive bias a day",
	Long: "debias picks a cognitive bias for you every day, schedules spaced reviews\n" +
		"of the ones you have seen and quizzes you on real-world scenarios.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides DEBIAS_DB env var)")
	pf.String("config", "", "Path to YAML config file (overrides DEBIAS_CONFIG env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(masterCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(addBiasCmd)
	rootCmd.AddCommand(removeBiasCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies flag overrides. Flags win
// over the file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, cfg.Validate()
}

// openService loads the config, starts the logger and opens the store.
// The returned func releases all three.
func openService(cmd *cobra.Command) (*service.Service, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{Mode: cfg.LogMode, Level: cfg.LogLevel, Output: cfg.LogFile})
	if err != nil {
		return nil, nil, fmt.Errorf("start logger: %w", err)
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	svc, err := service.New(st, cfg, log.With("db", dbPath))
	if err != nil {
		st.Close()
		log.Sync()
		return nil, nil, err
	}
	release := func() {
		if err := st.Close(); err != nil {
			log.Warn("close store failed", "error", err)
		}
		log.Sync()
	}
	return svc, release, nil
}
