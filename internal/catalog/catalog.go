package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/biases.json
var coreDocument []byte

//go:embed data/catalog.schema.json
var schemaDocument []byte

const schemaURL = "schema://catalog.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	coreOnce sync.Once
	core     []Bias
	coreErr  error
)

// document is the on-disk catalog format.
type document struct {
	Version int    `json:"version"`
	Biases  []Bias `json:"biases"`
}

// Core returns the bundled catalog. The returned slice is a copy.
func Core() ([]Bias, error) {
	coreOnce.Do(func() {
		core, coreErr = parse(coreDocument)
		for i := range core {
			core[i].Source = SourceCore
		}
	})
	if coreErr != nil {
		return nil, fmt.Errorf("load core catalog: %w", coreErr)
	}
	out := make([]Bias, len(core))
	copy(out, core)
	return out, nil
}

// Load reads and validates a catalog document.
func Load(r io.Reader) ([]Bias, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) ([]Bias, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := catalogSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", ErrInvalidBias, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Biases))
	for _, b := range doc.Biases {
		if seen[b.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidBias, b.ID)
		}
		seen[b.ID] = true
	}
	return doc.Biases, nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaDocument, &def); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Merge concatenates core and user biases into one ordered sequence.
// A user bias whose id is already taken by an earlier entry is dropped.
func Merge(coreBiases, userBiases []Bias) []Bias {
	out := make([]Bias, 0, len(coreBiases)+len(userBiases))
	seen := make(map[string]bool, len(coreBiases)+len(userBiases))
	for _, list := range [][]Bias{coreBiases, userBiases} {
		for _, b := range list {
			if seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			out = append(out, b)
		}
	}
	return out
}

// Find returns the bias with the given id.
func Find(biases []Bias, id string) (Bias, bool) {
	for _, b := range biases {
		if b.ID == id {
			return b, true
		}
	}
	return Bias{}, false
}

// Index builds an id lookup over biases.
func Index(biases []Bias) map[string]Bias {
	idx := make(map[string]Bias, len(biases))
	for _, b := range biases {
		idx[b.ID] = b
	}
	return idx
}
