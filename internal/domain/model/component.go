// Package model contains the hardware records shared between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is returned by Validate when a field is out of range.
var ErrInvalidRecord = errors.New("invalid record")

// Kind identifies one of the three component catalogs.
type Kind string

// Catalog kinds.
const (
	KindCPU         Kind = "cpu"
	KindGPU         Kind = "gpu"
	KindMotherboard Kind = "motherboard"
)

// Kinds lists every catalog kind in display order.
var Kinds = []Kind{KindCPU, KindGPU, KindMotherboard}

// ParseKind accepts a kind name, case-insensitively, with a few plural and
// short aliases ("cpus", "mb", "board").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "cpus", "processor":
		return KindCPU, nil
	case "gpu", "gpus", "graphics":
		return KindGPU, nil
	case "motherboard", "motherboards", "mb", "board":
		return KindMotherboard, nil
	default:
		return "", fmt.Errorf("unknown component kind %q", s)
	}
}

// CPU is a processor record. PerfScore is on the unified 0-100 scale shared
// with GPU.PerfScore.
type CPU struct {
	Name       string  `yaml:"name" json:"name"`
	Cores      int     `yaml:"cores" json:"cores"`
	Threads    int     `yaml:"threads" json:"threads"`
	BaseGHz    float64 `yaml:"base_ghz" json:"base_ghz"`
	BoostGHz   float64 `yaml:"boost_ghz" json:"boost_ghz"`
	TDPWatts   int     `yaml:"tdp_w" json:"tdp_w"`
	PerfScore  int     `yaml:"perf_score" json:"perf_score"`
	Socket     string  `yaml:"socket" json:"socket"`
	Generation string  `yaml:"generation" json:"generation"`
}

// GPU is a graphics card record.
type GPU struct {
	Name       string `yaml:"name" json:"name"`
	VRAMGB     int    `yaml:"vram_gb" json:"vram_gb"`
	TDPWatts   int    `yaml:"tdp_w" json:"tdp_w"`
	PerfScore  int    `yaml:"perf_score" json:"perf_score"`
	Vendor     string `yaml:"vendor" json:"vendor"`
	LowProfile bool   `yaml:"low_profile" json:"low_profile"`
}

// Motherboard is a board record, identified by chipset and socket.
type Motherboard struct {
	Name     string `yaml:"name" json:"name"`
	Socket   string `yaml:"socket" json:"socket"`
	Chipset  string `yaml:"chipset" json:"chipset"`
	MaxRAMGB int    `yaml:"max_ram_gb" json:"max_ram_gb"`
	PCIeGen  int    `yaml:"pcie_gen" json:"pcie_gen"`
}

// Validate checks the CPU field ranges.
func (c CPU) Validate() error {
	switch {
	case strings.TrimSpace(c.Socket) == "":
		return fmt.Errorf("%w: cpu %q has no socket", ErrInvalidRecord, c.Name)
	case c.Cores <= 0:
		return fmt.Errorf("%w: cpu %q cores must be positive", ErrInvalidRecord, c.Name)
	case c.Threads < c.Cores:
		return fmt.Errorf("%w: cpu %q has fewer threads than cores", ErrInvalidRecord, c.Name)
	case c.BoostGHz < c.BaseGHz:
		return fmt.Errorf("%w: cpu %q boost clock below base", ErrInvalidRecord, c.Name)
	case c.TDPWatts <= 0:
		return fmt.Errorf("%w: cpu %q tdp must be positive", ErrInvalidRecord, c.Name)
	case c.PerfScore < 0 || c.PerfScore > 100:
		return fmt.Errorf("%w: cpu %q perf_score %d out of 0-100", ErrInvalidRecord, c.Name, c.PerfScore)
	}
	return nil
}

// Validate checks the GPU field ranges.
func (g GPU) Validate() error {
	switch {
	case g.VRAMGB <= 0:
		return fmt.Errorf("%w: gpu %q vram must be positive", ErrInvalidRecord, g.Name)
	case g.TDPWatts <= 0:
		return fmt.Errorf("%w: gpu %q tdp must be positive", ErrInvalidRecord, g.Name)
	case g.PerfScore < 0 || g.PerfScore > 100:
		return fmt.Errorf("%w: gpu %q perf_score %d out of 0-100", ErrInvalidRecord, g.Name, g.PerfScore)
	}
	return nil
}

// Validate checks the motherboard field ranges.
func (m Motherboard) Validate() error {
	switch {
	case strings.TrimSpace(m.Socket) == "":
		return fmt.Errorf("%w: motherboard %q has no socket", ErrInvalidRecord, m.Name)
	case m.PCIeGen < 3 || m.PCIeGen > 5:
		return fmt.Errorf("%w: motherboard %q pcie_gen %d out of 3-5", ErrInvalidRecord, m.Name, m.PCIeGen)
	}
	return nil
}

// Named is implemented by every record so catalogs can index them.
type Named interface {
	ComponentName() string
}

func (c CPU) ComponentName() string         { return c.Name }
func (g GPU) ComponentName() string         { return g.Name }
func (m Motherboard) ComponentName() string { return m.Name }
