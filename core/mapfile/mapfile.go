// Package mapfile reads the style map files that pair HubXML roles with
// DocBook operations, and reports how well a map covers a document.
//
// A map file is a JSON array (or YAML list) of entries:
//
//	[
//	    { "selector": ".chapter-title", "operation": { "type": "title", "level": 1 } },
//	    { "selector": ".body.paragraph-override-2", "operation": { "unwrap": true } }
//	]
//
// Entries are keyed by their selector's classes joined with spaces, which
// is how the classes appear in a role attribute.
package mapfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "idml2docbook-map.json"

// Format is the serialization of a map file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf guesses the format from a file extension; JSON is the default.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Entry is one selector/operation pair, in file order.
type Entry struct {
	Selector  Selector
	Operation Operation
}

// Map is a parsed map file.
type Map struct {
	Entries []Entry
	byKey   map[string]Operation
}

// Len returns the number of distinct keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byKey)
}

// Lookup returns the operation for a role value. Later entries win over
// earlier ones with the same key.
func (m *Map) Lookup(role string) (Operation, bool) {
	if m == nil {
		return nil, false
	}
	op, ok := m.byKey[role]
	return op, ok
}

// Load reads and validates the map file at path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read map", path, err)
	}
	m, err := Parse(data, FormatOf(path))
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates map data.
func Parse(data []byte, format Format) (*Map, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, errors.NewParse("map", "", err.Error())
	}
	if err := validate(doc); err != nil {
		return nil, errors.NewParse("map", "", err.Error())
	}

	var raw []struct {
		Selector  string         `json:"selector"`
		Operation map[string]any `json:"operation"`
	}
	buf, err := json.Marshal(doc)
	if err == nil {
		err = json.Unmarshal(buf, &raw)
	}
	if err != nil {
		return nil, errors.NewParse("map", "", err.Error())
	}

	m := &Map{byKey: make(map[string]Operation, len(raw))}
	for _, r := range raw {
		sel, err := ParseSelector(r.Selector)
		if err != nil {
			return nil, err
		}
		op := Operation(r.Operation)
		m.Entries = append(m.Entries, Entry{Selector: sel, Operation: op})
		m.byKey[sel.Key()] = op
	}
	return m, nil
}

// decode returns JSON-typed data. YAML is converted through encoding/json
// so that numbers and maps have the types the schema validator expects.
func decode(data []byte, format Format) (any, error) {
	if format == YAML {
		var y any
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, err
		}
		buf, err := json.Marshal(y)
		if err != nil {
			return nil, err
		}
		data = buf
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

func validate(doc any) error {
	s, err := schema()
	if err != nil {
		return errors.Wrap(err, "compile map schema")
	}
	return s.Validate(doc)
}
