package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/okian/bottleneck/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// catalogFile is the top-level structure of a catalog YAML document.
type catalogFile struct {
	CPUs         []model.CPU         `yaml:"cpus"`
	GPUs         []model.GPU         `yaml:"gpus"`
	Motherboards []model.Motherboard `yaml:"motherboards"`
}

// Set bundles the three catalogs the engine reads from.
type Set struct {
	CPUs         *Catalog[model.CPU]
	GPUs         *Catalog[model.GPU]
	Motherboards *Catalog[model.Motherboard]
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Default returns the embedded catalog. It is parsed on first use and the
// same Set is shared by every caller afterwards.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(embeddedCatalog)
	})
	return defaultSet, defaultErr
}

// Load returns the embedded catalog when path is empty, otherwise it parses
// the YAML file at path.
func Load(_ context.Context, path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Unknown keys are rejected so a typo in a
// field name cannot silently produce a zero value. Every record is checked
// with its Validate method and names must be unique; all violations are
// joined under ErrInvalidCatalog.
func Parse(data []byte) (*Set, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidCatalog, err)
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	cpus, err := New(model.KindCPU, f.CPUs)
	if err != nil {
		return nil, err
	}
	gpus, err := New(model.KindGPU, f.GPUs)
	if err != nil {
		return nil, err
	}
	boards, err := New(model.KindMotherboard, f.Motherboards)
	if err != nil {
		return nil, err
	}
	return &Set{CPUs: cpus, GPUs: gpus, Motherboards: boards}, nil
}

func validate(f catalogFile) error {
	var errs []error
	for _, c := range f.CPUs {
		errs = append(errs, c.Validate())
	}
	for _, g := range f.GPUs {
		errs = append(errs, g.Validate())
	}
	for _, m := range f.Motherboards {
		errs = append(errs, m.Validate())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}

// Counts returns the number of records per kind.
func (s *Set) Counts() map[model.Kind]int {
	return map[model.Kind]int{
		model.KindCPU:         s.CPUs.Len(),
		model.KindGPU:         s.GPUs.Len(),
		model.KindMotherboard: s.Motherboards.Len(),
	}
}

// Names returns the names of one catalog in order.
func (s *Set) Names(kind model.Kind) []string {
	switch kind {
	case model.KindCPU:
		return s.CPUs.Names()
	case model.KindGPU:
		return s.GPUs.Names()
	case model.KindMotherboard:
		return s.Motherboards.Names()
	default:
		return nil
	}
}
