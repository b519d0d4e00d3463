// Package brd reads board description dumps into raw, uncross-referenced
// records. Each dialect has a cheap Is* predicate and a Parse* function
// that never fails outright: problems are reported through File.Valid and
// File.Err.
package brd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a board file dialect.
type Format int

const (
	FormatUnknown Format = iota
	FormatBVR3
	FormatBRD
	FormatXJSON
	FormatKiCad
)

func (f Format) String() string {
	switch f {
	case FormatBVR3:
		return "BVR3"
	case FormatBRD:
		return "BRD"
	case FormatXJSON:
		return "XJSON"
	case FormatKiCad:
		return "KiCad"
	}
	return "unknown"
}

// ErrUnknownFormat is returned when no dialect accepts a buffer.
var ErrUnknownFormat = errors.New("unrecognized board file format")

type dialect struct {
	format Format
	detect func([]byte) bool
	parse  func([]byte) *File
}

// dialects are tried in order; more specific magics come first.
var dialects = []dialect{
	{FormatKiCad, IsKiCad, ParseKiCad},
	{FormatXJSON, IsXJSON, ParseXJSON},
	{FormatBRD, IsBRD, ParseBRD},
	{FormatBVR3, IsBVR3, ParseBVR3},
}

// Detect picks the dialect of buf. A .json name selects XJSON outright.
func Detect(buf []byte, name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatXJSON
	}
	for _, d := range dialects {
		if d.detect(buf) {
			return d.format
		}
	}
	return FormatUnknown
}

// Load detects the dialect of buf and parses it. The result is never nil;
// check Valid before using it.
func Load(buf []byte, name string) (f *File) {
	format := Detect(buf, name)
	defer func() {
		if r := recover(); r != nil {
			f = invalid(format, fmt.Sprintf("malformed %s file: %v", format, r))
		}
	}()
	for _, d := range dialects {
		if d.format == format {
			return d.parse(buf)
		}
	}
	return invalid(FormatUnknown, ErrUnknownFormat.Error())
}

// ReadFile reads and parses the board at path. Only I/O problems are
// returned as errors.
func ReadFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	return Load(buf, filepath.Base(path)), nil
}
