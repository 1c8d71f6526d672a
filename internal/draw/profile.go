package draw

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Known lottery identifiers
const (
	Lotto649 = "lotto649"
	LottoMax = "lottomax"
)

// DefaultLottery is used whenever an identifier is not registered
const DefaultLottery = Lotto649

//go:embed profiles.yaml
var defaultProfilesYAML []byte

var (
	ErrInvalidRange = errors.New("invalid number range")
	ErrInvalidPicks = errors.New("invalid picks per entry")
)

// Profile is the static configuration of a lottery variant
type Profile struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Min   int    `yaml:"min" json:"min"`
	Max   int    `yaml:"max" json:"max"` // inclusive
	Picks int    `yaml:"picks" json:"picks"`
}

// Validate checks that the profile can produce a valid entry
func (p Profile) Validate() error {
	if p.Min > p.Max {
		return fmt.Errorf("%s: %w: %d > %d", p.ID, ErrInvalidRange, p.Min, p.Max)
	}
	if p.Picks <= 0 || p.Picks > p.Size() {
		return fmt.Errorf("%s: %w: %d", p.ID, ErrInvalidPicks, p.Picks)
	}
	return nil
}

// Size returns how many numbers lie in [Min, Max]
func (p Profile) Size() int {
	return p.Max - p.Min + 1
}

// Contains reports whether n is within the profile range
func (p Profile) Contains(n int) bool {
	return n >= p.Min && n <= p.Max
}

// Registry maps lottery identifiers to profiles
type Registry struct {
	profiles map[string]Profile
}

type registryFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadRegistry parses a YAML profile list and validates every entry
func LoadRegistry(r io.Reader) (*Registry, error) {
	var file registryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}

	reg := &Registry{profiles: make(map[string]Profile, len(file.Profiles))}
	for _, p := range file.Profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile without id")
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		reg.profiles[p.ID] = p
	}

	if _, ok := reg.profiles[DefaultLottery]; !ok {
		return nil, fmt.Errorf("profiles must define %s", DefaultLottery)
	}

	return reg, nil
}

// DefaultRegistry returns the built-in Lotto 6/49 and LottoMax profiles
func DefaultRegistry() *Registry {
	reg, err := LoadRegistry(bytes.NewReader(defaultProfilesYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded profiles: %v", err))
	}
	return reg
}

// ProfileFor returns the profile for id, falling back to Lotto 6/49
func (r *Registry) ProfileFor(id string) Profile {
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return r.profiles[DefaultLottery]
}

// IDs returns registered identifiers in sorted order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultRegistry = DefaultRegistry()

// ProfileFor resolves id against the built-in registry
func ProfileFor(id string) Profile {
	return defaultRegistry.ProfileFor(id)
}
