package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/boardgraph/internal/config"
	"github.com/OpenTraceLab/boardgraph/internal/session"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "boardgraph",
	Short: "Board file inspection tools",
	Long: `boardgraph reads board description dumps (BVR3, BRD, XJSON, KiCad) into
a cross-referenced graph of parts, pins and nets.

Examples:
  boardgraph info board.bvr               # Summary of a board
  boardgraph nets board.brd GND           # Pins on one net
  boardgraph parts board.bvr --outline    # Parts with derived outlines
  boardgraph annotate add board.bvr U1 3 "no diode reading"
  boardgraph history                      # Recently opened boards`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or the user config dir)")
}

func loadConfig() (*config.Config, error) {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func logger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "boardgraph: ", 0)
}

// openBoard loads a board file. The annotation store is opened only when
// withStore is set and the config enables it.
func openBoard(cmd *cobra.Command, path string, withStore bool) (*session.Session, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	sc := *cfg
	sc.Annotations = withStore && cfg.Annotations
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := session.Open(ctx, path, &sc, logger(cmd))
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
