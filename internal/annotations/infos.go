package annotations

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// InfosVersion is written at the top of every sidecar file.
const InfosVersion = "0.0.2"

// PinInfo holds measurements taken on one pin.
type PinInfo struct {
	Diode       string `yaml:"diode,omitempty"`
	Voltage     string `yaml:"voltage,omitempty"`
	Ohm         string `yaml:"ohm,omitempty"`
	OhmBlack    string `yaml:"ohm_black,omitempty"`
	VoltageFlag string `yaml:"voltage_flag,omitempty"` // "input" or "output"
}

// IsZero reports whether p carries nothing worth saving.
func (p PinInfo) IsZero() bool {
	return p == PinInfo{}
}

// PartInfo holds user details about one part.
type PartInfo struct {
	PartType string             `yaml:"part_type,omitempty"`
	Angle    int                `yaml:"angle,omitempty"`
	Pins     map[string]PinInfo `yaml:"pins,omitempty"`
}

// IsZero reports whether p carries nothing worth saving.
func (p PartInfo) IsZero() bool {
	return p.PartType == "" && p.Angle == 0 && len(p.Pins) == 0
}

// NetInfo holds user details about one net.
type NetInfo struct {
	ShowName string `yaml:"showname,omitempty"`
}

// Infos is the YAML sidecar of a board file.
type Infos struct {
	Version   string              `yaml:"Version"`
	PartInfos map[string]PartInfo `yaml:"PartInfos,omitempty"`
	NetInfos  map[string]NetInfo  `yaml:"NetInfos,omitempty"`
}

// InfosPath returns the sidecar path of a board file.
func InfosPath(boardPath string) string {
	return boardPath + ".yaml"
}

// LoadInfos reads the sidecar of a board file. A missing sidecar gives
// empty infos.
func LoadInfos(boardPath string) (*Infos, error) {
	in := &Infos{Version: InfosVersion}
	data, err := os.ReadFile(InfosPath(boardPath))
	if errors.Is(err, fs.ErrNotExist) {
		return in, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read infos: %w", err)
	}
	if err := yaml.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("parse infos: %w", err)
	}
	return in, nil
}

// Save prunes empty entries and writes the sidecar of a board file.
func (in *Infos) Save(boardPath string) error {
	in.prune()
	in.Version = InfosVersion
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal infos: %w", err)
	}
	return os.WriteFile(InfosPath(boardPath), data, 0644)
}

func (in *Infos) prune() {
	for name, part := range in.PartInfos {
		for pin, info := range part.Pins {
			if info.IsZero() {
				delete(part.Pins, pin)
			}
		}
		if part.IsZero() {
			delete(in.PartInfos, name)
		}
	}
	for name, net := range in.NetInfos {
		if net.ShowName == "" {
			delete(in.NetInfos, name)
		}
	}
}

// SetPin records measurements for a pin of a part.
func (in *Infos) SetPin(part, pin string, info PinInfo) {
	if in.PartInfos == nil {
		in.PartInfos = make(map[string]PartInfo)
	}
	p := in.PartInfos[part]
	if p.Pins == nil {
		p.Pins = make(map[string]PinInfo)
	}
	p.Pins[pin] = info
	in.PartInfos[part] = p
}

// Pin returns the measurements recorded for a pin.
func (in *Infos) Pin(part, pin string) (PinInfo, bool) {
	info, ok := in.PartInfos[part].Pins[pin]
	return info, ok
}

// SetShowName sets the display name of a net. An empty name clears it.
func (in *Infos) SetShowName(net, name string) {
	if in.NetInfos == nil {
		in.NetInfos = make(map[string]NetInfo)
	}
	in.NetInfos[net] = NetInfo{ShowName: name}
}

// ShowName returns the display name of a net, falling back to its name.
func (in *Infos) ShowName(net string) string {
	if info, ok := in.NetInfos[net]; ok && info.ShowName != "" {
		return info.ShowName
	}
	return net
}
