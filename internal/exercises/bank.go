package exercises

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed bank.json
	defaultBank []byte

	//go:embed bank.schema.json
	bankSchemaJSON []byte
)

const bankSchemaURL = "schema://sqltutor/bank.schema.json"

// ErrDuplicateID is returned by Add when an exercise id is already taken.
var ErrDuplicateID = errors.New("duplicate exercise id")

// Bank is the set of exercises available in this process, keyed by tier.
// Generated exercises are appended at runtime; nothing is ever removed.
type Bank struct {
	mu     sync.RWMutex
	byTier map[Tier][]Exercise
	ids    map[string]struct{}
}

type bankFile map[Tier][]Exercise

// LoadDefault returns the bank compiled into the binary.
func LoadDefault() (*Bank, error) {
	return Parse(defaultBank, "json")
}

// LoadFile reads a bank from a JSON or YAML file, chosen by extension.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exercise bank: %w", err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	b, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a bank document. format is "json" or "yaml".
func Parse(data []byte, format string) (*Bank, error) {
	if format == "yaml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert YAML: %w", err)
		}
	}

	if err := validateBank(data); err != nil {
		return nil, err
	}

	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode exercise bank: %w", err)
	}

	b := New()
	for _, tier := range Tiers() {
		for _, ex := range f[tier] {
			ex.Tier = tier
			if err := b.Add(ex); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

var (
	bankSchemaOnce sync.Once
	bankSchema     *jsonschema.Schema
	bankSchemaErr  error
)

func validateBank(data []byte) error {
	bankSchemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(bankSchemaJSON))
		if err != nil {
			bankSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, def); err != nil {
			bankSchemaErr = err
			return
		}
		bankSchema, bankSchemaErr = c.Compile(bankSchemaURL)
	})
	if bankSchemaErr != nil {
		return fmt.Errorf("compile bank schema: %w", bankSchemaErr)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse exercise bank: %w", err)
	}
	if err := bankSchema.Validate(doc); err != nil {
		return fmt.Errorf("invalid exercise bank: %w", err)
	}
	return nil
}

// New returns an empty bank.
func New() *Bank {
	return &Bank{
		byTier: make(map[Tier][]Exercise),
		ids:    make(map[string]struct{}),
	}
}

// Add appends an exercise to its tier.
func (b *Bank) Add(ex Exercise) error {
	if !ex.Tier.Valid() {
		return fmt.Errorf("exercise %q: invalid tier %q", ex.ID, ex.Tier)
	}
	if ex.ID == "" {
		return errors.New("exercise id is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ids[ex.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, ex.ID)
	}
	ex.Concepts = slices.Clone(ex.Concepts)
	b.ids[ex.ID] = struct{}{}
	b.byTier[ex.Tier] = append(b.byTier[ex.Tier], ex)
	return nil
}

// ByTier returns a copy of the tier's exercises in bank order.
func (b *Bank) ByTier(t Tier) []Exercise {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.byTier[t])
}

// All returns every exercise, easiest tier first.
func (b *Bank) All() []Exercise {
	var out []Exercise
	for _, t := range Tiers() {
		out = append(out, b.ByTier(t)...)
	}
	return out
}

// Get looks an exercise up by id.
func (b *Bank) Get(id string) (Exercise, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, list := range b.byTier {
		for _, ex := range list {
			if ex.ID == id {
				return ex, true
			}
		}
	}
	return Exercise{}, false
}

// Has reports whether an exercise id exists.
func (b *Bank) Has(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.ids[id]
	return ok
}

// Count returns the number of exercises in a tier.
func (b *Bank) Count(t Tier) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byTier[t])
}

// Examples returns up to n exercises from the start of the tier. They seed
// the generation prompt and the example exercises page.
func (b *Bank) Examples(t Tier, n int) []Exercise {
	list := b.ByTier(t)
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Questions returns every question text in a tier.
func (b *Bank) Questions(t Tier) []string {
	list := b.ByTier(t)
	out := make([]string, len(list))
	for i, ex := range list {
		out[i] = ex.Question
	}
	return out
}

// Pick returns a random exercise of the tier whose id is not in skip.
// It reports false when no such exercise exists.
func (b *Bank) Pick(rng *rand.Rand, t Tier, skip func(id string) bool) (Exercise, bool) {
	var candidates []Exercise
	for _, ex := range b.ByTier(t) {
		if skip == nil || !skip(ex.ID) {
			candidates = append(candidates, ex)
		}
	}
	if len(candidates) == 0 {
		return Exercise{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
