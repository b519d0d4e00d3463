package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/boardgraph/pkg/board"
	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

var showOutlines bool

var infoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show board summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var netsCmd = &cobra.Command{
	Use:   "nets <board_file> [net_name]",
	Short: "Show net information",
	Long: `Display information about nets in a board file.

Without net_name: Lists all nets with pin counts
With net_name: Shows every pin on that net`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNets,
}

var partsCmd = &cobra.Command{
	Use:   "parts <board_file> [part_name]",
	Short: "Show part information",
	Long: `Display the parts of a board file.

Without part_name: Lists all parts
With part_name: Shows the pins and derived outline of that part`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runParts,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <board_file>",
	Short: "Show the board outline and its scanline fill",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(netsCmd)
	rootCmd.AddCommand(partsCmd)
	rootCmd.AddCommand(outlineCmd)
	partsCmd.Flags().BoolVar(&showOutlines, "outline", false, "derive and show part outlines")
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, _, err := openBoard(cmd, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	b := s.Board
	fmt.Fprintf(out, "Board: %s\n", s.Path)
	fmt.Fprintf(out, "  Format: %s\n", b.Format())
	fmt.Fprintf(out, "  Parts: %d\n", len(b.Components()))
	fmt.Fprintf(out, "  Pins: %d\n", len(b.Pins()))
	fmt.Fprintf(out, "  Nets: %d\n", len(b.Nets()))
	fmt.Fprintf(out, "  Tracks: %d\n", len(b.Tracks()))
	fmt.Fprintf(out, "  Vias: %d\n", len(b.Vias()))
	fmt.Fprintf(out, "  Arcs: %d\n", len(b.Arcs()))
	fmt.Fprintf(out, "  Outline: %d points, %d segments\n", len(b.OutlinePoints()), len(b.OutlineSegments()))

	var sides []string
	for _, side := range b.Sides() {
		sides = append(sides, side.String())
	}
	if len(sides) > 0 {
		fmt.Fprintf(out, "  Sides: %s\n", strings.Join(sides, ", "))
	}
	if pts := b.OutlinePoints(); len(pts) > 0 {
		box := geom.Bounds(pts)
		fmt.Fprintf(out, "  Board size: %.1f x %.1f\n", box.Max.X-box.Min.X, box.Max.Y-box.Min.Y)
	}
	if s.Orientation.Flipped {
		fmt.Fprintf(out, "  Outline flipped (%d pins outside as loaded)\n", s.Orientation.Outside[1])
	}

	d := b.Diagnostics()
	if d.DroppedPins > 0 {
		fmt.Fprintf(out, "  Dropped pins: %d\n", d.DroppedPins)
	}
	if d.FallbackOutline {
		fmt.Fprintln(out, "  Outline synthesised from pin positions")
	}
	return nil
}

func runNets(cmd *cobra.Command, args []string) error {
	s, _, err := openBoard(cmd, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	b := s.Board
	if len(args) >= 2 {
		n, ok := b.NetByName(args[1])
		if !ok {
			return fmt.Errorf("net '%s' not found", args[1])
		}
		fmt.Fprintf(out, "Net: %s", n.Name)
		if show := s.Infos.ShowName(n.Name); show != n.Name {
			fmt.Fprintf(out, " (%s)", show)
		}
		if n.HasNumber {
			fmt.Fprintf(out, " number %d", n.Number)
		}
		fmt.Fprintln(out)
		if n.Ground {
			fmt.Fprintln(out, "  ground")
		}
		fmt.Fprintf(out, "\nPins (%d):\n", len(n.Pins))
		for _, p := range b.PinsOf(n.Pins) {
			fmt.Fprintf(out, "  %-12s %-6s %-8s at (%.1f, %.1f)\n",
				ownerName(b, p), p.Name, p.Kind, p.Position.X, p.Position.Y)
		}
		return nil
	}

	fmt.Fprintf(out, "Board: %d nets\n\n", len(b.Nets()))
	fmt.Fprintf(out, "%-30s %-20s %6s\n", "Net Name", "Show Name", "Pins")
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────")
	for _, n := range b.Nets() {
		fmt.Fprintf(out, "%-30s %-20s %6d\n", n.Name, s.Infos.ShowName(n.Name), len(n.Pins))
	}
	return nil
}

func ownerName(b *board.Board, p *board.Pin) string {
	if c := b.Component(p.Component); c != nil {
		return c.Name
	}
	return fmt.Sprintf("probe %d", p.Probe)
}

func runParts(cmd *cobra.Command, args []string) error {
	s, _, err := openBoard(cmd, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	b := s.Board
	if len(args) >= 2 {
		c, ok := b.ComponentByName(args[1])
		if !ok {
			return fmt.Errorf("part '%s' not found", args[1])
		}
		o := b.ComputeComponentOutline(c.ID)
		fmt.Fprintf(out, "Part: %s (%s, %s, %s side)\n", c.Name, c.Kind, c.Mount, c.Side)
		printOutline(out, o)
		fmt.Fprintf(out, "\nPins (%d):\n", len(c.Pins))
		for _, p := range b.PinsOf(c.Pins) {
			fmt.Fprintf(out, "  %-6s %-20s d=%-5.1f at (%.1f, %.1f)\n",
				p.Name, b.Net(p.Net).Name, p.Diameter, p.Position.X, p.Position.Y)
		}
		return nil
	}

	fmt.Fprintf(out, "Board: %d parts\n\n", len(b.Components()))
	fmt.Fprintf(out, "%-20s %-9s %-4s %-7s %5s\n", "Part", "Kind", "Mnt", "Side", "Pins")
	fmt.Fprintln(out, "─────────────────────────────────────────────────")
	for _, c := range b.Components() {
		fmt.Fprintf(out, "%-20s %-9s %-4s %-7s %5d\n", c.Name, c.Kind, c.Mount, c.Side, len(c.Pins))
		if showOutlines {
			o := b.ComputeComponentOutline(c.ID)
			fmt.Fprintf(out, "    %s\n", outlineString(o))
		}
	}
	return nil
}

func printOutline(out io.Writer, o board.Outline) {
	fmt.Fprintf(out, "  Outline: %s\n", outlineString(o))
	if o.Capacitor {
		fmt.Fprintf(out, "  Polarity mark at (%.1f, %.1f), pins %.1f apart\n", o.Center.X, o.Center.Y, o.Expanse)
	}
	if o.Warning {
		fmt.Fprintln(out, "  Part has no pins")
	}
}

func outlineString(o board.Outline) string {
	var pts []string
	for _, c := range o.Corners {
		pts = append(pts, fmt.Sprintf("(%.1f, %.1f)", c.X, c.Y))
	}
	return o.Shape.String() + " " + strings.Join(pts, " ")
}

func runOutline(cmd *cobra.Command, args []string) error {
	s, cfg, err := openBoard(cmd, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	b := s.Board
	fmt.Fprintf(out, "Outline points (%d):\n", len(b.OutlinePoints()))
	for _, p := range b.OutlinePoints() {
		fmt.Fprintf(out, "  (%.1f, %.1f)\n", p.X, p.Y)
	}
	if segs := b.OutlineSegments(); len(segs) > 0 {
		fmt.Fprintf(out, "Outline segments (%d):\n", len(segs))
		for _, sg := range segs {
			fmt.Fprintf(out, "  (%.1f, %.1f) - (%.1f, %.1f)\n", sg.A.X, sg.A.Y, sg.B.X, sg.B.Y)
		}
	}

	chords := b.Fill(cfg.FillSpacing)
	var length float64
	for _, c := range chords {
		length += c.X1 - c.X0
	}
	fmt.Fprintf(out, "Fill: %d chords every %.1f units, %.1f units of fill\n", len(chords), cfg.FillSpacing, length)
	return nil
}
