// Package fixture loads offline resolution inputs from JSON or YAML files.
package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/order-resolution-service/internal/api/dto"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "https://order-resolution.local/fixture.schema.json"

var fixtureSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		panic(fmt.Sprintf("fixture schema load failed: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// Load reads a fixture file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func Load(path string) (*dto.ResolveRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(raw)
	default:
		return ParseJSON(raw)
	}
}

// ParseYAML converts a YAML fixture to JSON and parses it.
func ParseYAML(raw []byte) (*dto.ResolveRequest, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml fixture: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml fixture: %w", err)
	}
	return ParseJSON(asJSON)
}

// ParseJSON validates a JSON fixture against the fixture schema and decodes it.
func ParseJSON(raw []byte) (*dto.ResolveRequest, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json fixture: %w", err)
	}
	if err := fixtureSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("fixture schema validation failed: %w", err)
	}

	var req dto.ResolveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &req, nil
}
