package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/boardgraph/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened boards",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	h := history.New(cfg.HistoryFile, cfg.HistoryMax)
	if err := h.Load(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(h.Entries()) == 0 {
		fmt.Fprintln(out, "No recent boards")
		return nil
	}
	for i, e := range h.Entries() {
		fmt.Fprintf(out, "%2d  %-40s %s\n", i+1, history.TrimFilename(e, 2), e)
	}
	return nil
}
