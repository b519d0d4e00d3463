package session

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/boardgraph/internal/config"
	"github.com/OpenTraceLab/boardgraph/internal/history"
)

const sample = `BVRAW_FORMAT_3
PART_NAME R1
PART_SIDE T
PIN_ORIGIN 0 0
PIN_NET N1
PIN_END
PIN_ORIGIN 100 0
PIN_NET N1
PIN_END
PART_END
`

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.HistoryFile = filepath.Join(t.TempDir(), "history.json")
	return cfg
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.bvr")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	var out bytes.Buffer

	s, err := Open(context.Background(), path, cfg, log.New(&out, "", 0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if got := len(s.Board.Components()); got != 1 {
		t.Errorf("components = %d, want 1", got)
	}
	if _, ok := s.Board.NetByName("N1"); !ok {
		t.Error("net N1 missing")
	}
	if !s.Board.Diagnostics().FallbackOutline {
		t.Error("expected a fallback outline")
	}
	if s.Store == nil {
		t.Fatal("annotation store not opened")
	}
	id, err := s.Annotate(context.Background(), "R1", "2", "hello")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	notes, err := s.Store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].ID != id || notes[0].X != 100 || notes[0].Net != "N1" {
		t.Errorf("stored notes = %+v", notes)
	}
	if _, err := s.Annotate(context.Background(), "R1", "9", "x"); err == nil {
		t.Error("expected error for unknown pin")
	}
	for _, want := range []string{"detected BVR3", "synthesised"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("log lacks %q:\n%s", want, out.String())
		}
	}

	h := history.New(cfg.HistoryFile, cfg.HistoryMax)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if e := h.Entries(); len(e) != 1 || e[0] != s.Path {
		t.Errorf("history = %v, want [%s]", e, s.Path)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Annotations = false

	if _, err := Open(context.Background(), filepath.Join(dir, "missing.bvr"), cfg, nil); err == nil {
		t.Error("expected error for missing file")
	}

	junk := filepath.Join(dir, "junk.bin")
	if err := os.WriteFile(junk, []byte("nothing to see"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(context.Background(), junk, cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "unrecognized") {
		t.Errorf("Open(junk) = %v, want unrecognized format", err)
	}

	path := filepath.Join(dir, "board.bvr")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(context.Background(), path, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, err := s.Annotate(context.Background(), "", "", "note"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Annotate without store = %v, want ErrNoStore", err)
	}
}
