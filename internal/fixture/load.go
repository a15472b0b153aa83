package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/edna_prediction_data.json
var embedded []byte

// Embedded returns the raw bundled analysis document.
func Embedded() []byte {
	return bytes.Clone(embedded)
}

// Load reads an analysis from path, or the bundled one when path is empty.
func Load(path string) (*Analysis, error) {
	if path == "" {
		return Parse(embedded)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Parse decodes and validates an analysis document.
func Parse(data []byte) (*Analysis, error) {
	var a Analysis
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// JSON renders the analysis as indented JSON.
func (a *Analysis) JSON() (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding analysis: %w", err)
	}
	return string(data), nil
}
