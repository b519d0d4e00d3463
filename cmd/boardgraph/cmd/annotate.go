package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/boardgraph/internal/annotations"
	"github.com/OpenTraceLab/boardgraph/internal/session"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Board annotations",
	Long: `Notes stored next to a board file in <name>_<ext>.sqlite3, and net
display names stored in <board_file>.yaml.`,
}

var annotateListCmd = &cobra.Command{
	Use:   "list <board_file>",
	Short: "List annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotateList,
}

var annotateAddCmd = &cobra.Command{
	Use:   "add <board_file> <part> <pin> <note>",
	Short: "Add a note on a pin (empty part and pin for a board note)",
	Args:  cobra.ExactArgs(4),
	RunE:  runAnnotateAdd,
}

var annotateRemoveCmd = &cobra.Command{
	Use:   "remove <board_file> <id>",
	Short: "Hide an annotation",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotateRemove,
}

var annotateUpdateCmd = &cobra.Command{
	Use:   "update <board_file> <id> <note>",
	Short: "Replace the note of an annotation",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnnotateUpdate,
}

var annotateShowNameCmd = &cobra.Command{
	Use:   "showname <board_file> <net> [name]",
	Short: "Set or clear the display name of a net",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runAnnotateShowName,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.AddCommand(annotateListCmd)
	annotateCmd.AddCommand(annotateAddCmd)
	annotateCmd.AddCommand(annotateRemoveCmd)
	annotateCmd.AddCommand(annotateUpdateCmd)
	annotateCmd.AddCommand(annotateShowNameCmd)
}

func openStore(cmd *cobra.Command, path string) (*session.Session, error) {
	s, _, err := openBoard(cmd, path, true)
	if err != nil {
		return nil, err
	}
	if s.Store == nil {
		s.Close()
		return nil, session.ErrNoStore
	}
	return s, nil
}

func runAnnotateList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.Store.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Annotations (%d):\n", len(list))
	for _, a := range list {
		where := "board"
		if a.Part != "" {
			where = a.Part + "." + a.Pin
		}
		fmt.Fprintf(out, "  #%-4d %-14s %-16s (%d, %d) %s\n", a.ID, where, a.Net, a.X, a.Y, a.Note)
	}
	return nil
}

func runAnnotateAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Annotate(cmd.Context(), args[1], args[2], args[3])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added annotation #%d\n", id)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid annotation id %q: %w", arg, err)
	}
	return id, nil
}

func runAnnotateRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	s, err := openStore(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Store.Remove(cmd.Context(), id); err != nil {
		return fmt.Errorf("remove #%d: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed annotation #%d\n", id)
	return nil
}

func runAnnotateUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	s, err := openStore(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Store.Update(cmd.Context(), id, args[2]); err != nil {
		return fmt.Errorf("update #%d: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated annotation #%d\n", id)
	return nil
}

func runAnnotateShowName(cmd *cobra.Command, args []string) error {
	s, _, err := openBoard(cmd, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, ok := s.Board.NetByName(args[1]); !ok {
		return fmt.Errorf("net '%s' not found", args[1])
	}
	name := ""
	if len(args) == 3 {
		name = args[2]
	}
	s.Infos.SetShowName(args[1], name)
	if err := s.Infos.Save(s.Path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", annotations.InfosPath(s.Path))
	return nil
}
