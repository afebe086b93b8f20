// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is the serialization of a taxonomy document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// OzonDocument is the top-level ozon export.
type OzonDocument struct {
	Result []OzonNode `json:"result" yaml:"result"`
}

// YandexDocument is the top-level yandex export.
type YandexDocument struct {
	Result *YandexNode `json:"result" yaml:"result"`
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(v)
	case FormatJSON, "":
		return json.NewDecoder(r).Decode(v)
	default:
		return fmt.Errorf("unsupported document format %q", format)
	}
}

// DecodeOzon reads an ozon document from r.
func DecodeOzon(r io.Reader, format Format) (*OzonDocument, error) {
	var doc OzonDocument
	if err := decode(r, format, &doc); err != nil {
		return nil, fmt.Errorf("decoding ozon document: %w", err)
	}
	return &doc, nil
}

// DecodeYandex reads a yandex document from r.
func DecodeYandex(r io.Reader, format Format) (*YandexDocument, error) {
	var doc YandexDocument
	if err := decode(r, format, &doc); err != nil {
		return nil, fmt.Errorf("decoding yandex document: %w", err)
	}
	return &doc, nil
}

// LoadOzon opens path and decodes it, choosing the format by extension.
func LoadOzon(path string) (*OzonDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := DecodeOzon(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadYandex opens path and decodes it, choosing the format by extension.
func LoadYandex(path string) (*YandexDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := DecodeYandex(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
