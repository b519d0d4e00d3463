// Package session runs the load pipeline for one board file: read,
// detect, parse, build, orientation check, then the per-board annotation
// store and the recent-file history.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"

	"github.com/OpenTraceLab/boardgraph/internal/annotations"
	"github.com/OpenTraceLab/boardgraph/internal/config"
	"github.com/OpenTraceLab/boardgraph/internal/history"
	"github.com/OpenTraceLab/boardgraph/pkg/board"
	"github.com/OpenTraceLab/boardgraph/pkg/brd"
)

// Session is an open board with its user data.
type Session struct {
	Path        string
	File        *brd.File
	Board       *board.Board
	Orientation board.Orientation
	Store       *annotations.Store // nil when annotations are disabled
	Infos       *annotations.Infos

	log *log.Logger
}

// Open loads the board at path. A nil logger discards output.
func Open(ctx context.Context, path string, cfg *config.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	f, err := brd.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	logger.Printf("%s: detected %s", filepath.Base(abs), f.Format)
	if !f.Valid {
		return nil, fmt.Errorf("%s: %s", filepath.Base(abs), f.Err)
	}

	s := &Session{Path: abs, File: f, log: logger}
	s.Board = board.Build(f, cfg.BoardOptions())
	s.logDiagnostics()

	s.Orientation = s.Board.CheckOrientation()
	if s.Orientation.Flipped {
		logger.Printf("outline flipped: %d pins outside as loaded, %d mirrored",
			s.Orientation.Outside[1], s.Orientation.Outside[0])
	}

	if s.Infos, err = annotations.LoadInfos(abs); err != nil {
		logger.Printf("ignoring part/net infos: %v", err)
		s.Infos = &annotations.Infos{Version: annotations.InfosVersion}
	}
	if cfg.Annotations {
		if s.Store, err = annotations.Open(ctx, abs); err != nil {
			return nil, err
		}
	}

	if cfg.HistoryFile != "" {
		h := history.New(cfg.HistoryFile, cfg.HistoryMax)
		if err := h.Load(); err != nil {
			logger.Printf("history: %v", err)
		}
		if err := h.Prepend(abs); err != nil {
			logger.Printf("history: %v", err)
		}
	}
	return s, nil
}

func (s *Session) logDiagnostics() {
	b := s.Board
	d := b.Diagnostics()
	s.log.Printf("built %d components, %d pins, %d nets", len(b.Components()), len(b.Pins()), len(b.Nets()))
	if d.DroppedPins > 0 {
		s.log.Printf("dropped %d pins with an out of range part index", d.DroppedPins)
	}
	if d.CreatedNets > 0 {
		s.log.Printf("%d nets not in the net table", d.CreatedNets)
	}
	if d.FallbackOutline {
		s.log.Printf("no board outline, synthesised one from pin positions")
	}
}

// ErrNoStore is returned by annotation calls when annotations are disabled.
var ErrNoStore = errors.New("annotations are disabled")

// Annotate adds a note to the store. With a part and pin name the note is
// placed on that pin and records its net; with a part alone it is placed
// on the part's first pin.
func (s *Session) Annotate(ctx context.Context, part, pin, note string) (int64, error) {
	if s.Store == nil {
		return 0, ErrNoStore
	}
	a := annotations.Annotation{Part: part, Pin: pin, Note: note}
	if part != "" {
		c, ok := s.Board.ComponentByName(part)
		if !ok {
			return 0, fmt.Errorf("part %q not found", part)
		}
		p, err := s.findPin(c, pin)
		if err != nil {
			return 0, err
		}
		a.X, a.Y = int(math.Round(p.Position.X)), int(math.Round(p.Position.Y))
		a.Side = int(p.Side)
		a.Net = s.Board.Net(p.Net).Name
	}
	return s.Store.Add(ctx, a)
}

func (s *Session) findPin(c *board.Component, name string) (*board.Pin, error) {
	pins := s.Board.PinsOf(c.Pins)
	if len(pins) == 0 {
		return nil, fmt.Errorf("part %q has no pins", c.Name)
	}
	if name == "" {
		return pins[0], nil
	}
	for _, p := range pins {
		if p.Number == name || p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pin %q not found on %s", name, c.Name)
}

// Close releases the annotation store.
func (s *Session) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
