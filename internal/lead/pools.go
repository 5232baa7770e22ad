package lead

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPool is returned when a name pool has no entries.
var ErrEmptyPool = errors.New("empty pool")

// ErrDelimiterInPool is returned when a pool entry holds a comma or a line
// break. Rows are written unquoted, so such an entry would shift columns.
var ErrDelimiterInPool = errors.New("pool entry contains a delimiter")

// Pools holds the sample values a generator draws from.
// A generator takes its own copy; callers may reuse a Pools value freely.
type Pools struct {
	FirstNames []string `yaml:"first_names"`
	LastNames  []string `yaml:"last_names"`
	Tags       []string `yaml:"tags"`
}

// DefaultPools returns the built-in pools.
func DefaultPools() Pools {
	return Pools{
		FirstNames: slices.Clone(firstNames),
		LastNames:  slices.Clone(lastNames),
		Tags:       slices.Clone(tags),
	}
}

// LoadPools reads pools from a YAML file. Lists missing from the file
// fall back to the built-in ones.
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, fmt.Errorf("load pools: %w", err)
	}
	return ParsePools(data)
}

// ParsePools decodes YAML pools, filling absent lists from the defaults.
func ParsePools(data []byte) (Pools, error) {
	var p Pools
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Pools{}, fmt.Errorf("parse pools: %w", err)
	}

	def := DefaultPools()
	if p.FirstNames == nil {
		p.FirstNames = def.FirstNames
	}
	if p.LastNames == nil {
		p.LastNames = def.LastNames
	}
	if p.Tags == nil {
		p.Tags = def.Tags
	}

	if err := p.Validate(); err != nil {
		return Pools{}, fmt.Errorf("parse pools: %w", err)
	}
	return p, nil
}

// Validate checks that both name pools are non-empty, that no entry holds
// a comma or line break, and that the tag pool holds no duplicates. An
// empty tag pool is allowed.
func (p Pools) Validate() error {
	if len(p.FirstNames) == 0 {
		return fmt.Errorf("first names: %w", ErrEmptyPool)
	}
	if len(p.LastNames) == 0 {
		return fmt.Errorf("last names: %w", ErrEmptyPool)
	}
	if err := checkDelimiters("first names", p.FirstNames); err != nil {
		return err
	}
	if err := checkDelimiters("last names", p.LastNames); err != nil {
		return err
	}
	if err := checkDelimiters("tags", p.Tags); err != nil {
		return err
	}

	seen := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		if t == "" {
			return errors.New("tags: empty tag")
		}
		if seen[t] {
			return fmt.Errorf("tags: duplicate tag %q", t)
		}
		seen[t] = true
	}
	return nil
}

func checkDelimiters(list string, entries []string) error {
	for _, e := range entries {
		if strings.ContainsAny(e, ",\r\n") {
			return fmt.Errorf("%s: %q: %w", list, e, ErrDelimiterInPool)
		}
	}
	return nil
}

func (p Pools) clone() Pools {
	return Pools{
		FirstNames: slices.Clone(p.FirstNames),
		LastNames:  slices.Clone(p.LastNames),
		Tags:       slices.Clone(p.Tags),
	}
}
