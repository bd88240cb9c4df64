package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCatalogFile reads a catalog definition from disk. Files ending in
// .json are decoded as JSON, anything else as YAML.
func LoadCatalogFile(name string) (*Catalog, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		return ParseCatalogJSON(data)
	}
	return ParseCatalogYAML(data)
}

// ParseCatalogJSON decodes a catalog, rejecting unknown fields.
func ParseCatalogJSON(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	return &c, nil
}

// ParseCatalogYAML decodes a catalog, rejecting unknown fields.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog YAML: %w", err)
	}
	return &c, nil
}
