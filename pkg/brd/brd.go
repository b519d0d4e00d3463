package brd

import "bytes"

// encodedHeader starts a BRD file whose bytes are scrambled.
var encodedHeader = []byte{0x23, 0xe2, 0x63, 0x28}

// IsBRD reports whether buf is a classic BRD dump, scrambled or plain.
func IsBRD(buf []byte) bool {
	if bytes.HasPrefix(buf, encodedHeader) {
		return true
	}
	return bytes.Contains(buf, []byte("str_length:")) && bytes.Contains(buf, []byte("var_data:"))
}

type brdBlock int

const (
	blockNone brdBlock = iota
	blockStrLength
	blockVarData
	blockFormat
	blockParts
	blockPins
	blockNails
)

var brdBlocks = map[string]brdBlock{
	"str_length": blockStrLength,
	"var_data":   blockVarData,
	"Format":     blockFormat,
	"format":     blockFormat,
	"Parts":      blockParts,
	"Pins1":      blockParts,
	"Pins":       blockPins,
	"Pins2":      blockPins,
	"Nails":      blockNails,
}

// ParseBRD reads a classic BRD dump.
func ParseBRD(buf []byte) *File {
	if len(buf) <= 4 {
		return invalid(FormatBRD, "file too small")
	}
	if bytes.HasPrefix(buf, encodedHeader) {
		buf = decodeBRD(buf)
	}

	f := newFile(FormatBRD)
	block := blockNone
	for _, line := range splitLines(buf) {
		if h, ok := parseHeader(line); ok {
			if b, known := brdBlocks[h.Name]; known {
				block = b
				continue
			}
		}

		a := newFields(line)
		switch block {
		case blockFormat:
			f.Outline = append(f.Outline, a.point())
		case blockParts:
			part := Part{Name: a.str()}
			part.Mount, part.Side = brdPartType(a.int())
			part.EndOfPins = a.int()
			f.Parts = append(f.Parts, part)
		case blockPins:
			pin := newPin()
			pin.Pos = a.point()
			pin.Probe = a.int()
			pin.Part = a.int()
			pin.Net = a.str()
			f.Pins = append(f.Pins, pin)
		case blockNails:
			nail := Nail{Probe: a.int()}
			nail.Pos = a.point()
			if a.int() == 1 {
				nail.Side = SideTop
			} else {
				nail.Side = SideBottom
			}
			nail.Net = a.str()
			f.Nails = append(f.Nails, nail)
		}
	}

	// pins carry no side of their own in this format
	for i := range f.Pins {
		if p := f.Pins[i].Part; p >= 1 && p <= len(f.Parts) {
			f.Pins[i].Side = f.Parts[p-1].Side
		}
	}
	return f.finish()
}

// brdPartType unpacks the combined mount/side field of a part line.
func brdPartType(v int) (MountType, Side) {
	mount := MountThroughHole
	if v&0xc != 0 {
		mount = MountSMD
	}
	side := SideBoth
	switch {
	case v == 1 || (v >= 4 && v < 8):
		side = SideTop
	case v == 2 || v >= 8:
		side = SideBottom
	}
	return mount, side
}

// decodeBRD unscrambles an encoded BRD buffer. Line breaks and NUL bytes
// are left alone.
func decodeBRD(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, x := range buf {
		if x == '\r' || x == '\n' || x == 0 {
			out[i] = x
			continue
		}
		out[i] = ^(((x >> 6) & 3) | (x << 2))
	}
	return out
}
