// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CategoryID is a category identifier decoded from either a number or a
// string. Number literals keep their source spelling so that 17027495 is
// written back as 17027495 and never as 1.7027495e+07.
type CategoryID struct {
	raw     string
	numeric bool
	boolean bool
}

// NewCategoryID returns a string-typed identifier.
func NewCategoryID(s string) CategoryID {
	return CategoryID{raw: s}
}

// NumericID returns an identifier that behaves as if decoded from a number literal.
func NumericID(literal string) CategoryID {
	return CategoryID{raw: literal, numeric: true}
}

// String returns the identifier as it appeared in the source document.
func (id CategoryID) String() string {
	return id.raw
}

// IsEmpty reports whether the identifier is an empty string, a numeric zero,
// or a boolean false.
func (id CategoryID) IsEmpty() bool {
	if id.raw == "" {
		return true
	}
	if id.boolean {
		return strings.EqualFold(id.raw, "false")
	}
	if !id.numeric {
		return false
	}
	f, err := strconv.ParseFloat(id.raw, 64)
	return err == nil && f == 0
}

// UnmarshalJSON accepts a JSON string or any scalar literal.
func (id *CategoryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty category id")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding category id: %w", err)
		}
		*id = CategoryID{raw: s}
	case '{', '[':
		return fmt.Errorf("category id must be a number or string, got %s", b)
	case 't', 'f':
		*id = CategoryID{raw: string(b), boolean: true}
	default:
		*id = CategoryID{raw: string(b), numeric: b[0] == '-' || (b[0] >= '0' && b[0] <= '9')}
	}
	return nil
}

// UnmarshalYAML accepts a YAML scalar. Integer and float tags are numeric;
// bool tags behave like JSON true and false.
func (id *CategoryID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: category id must be a scalar", value.Line)
	}
	switch value.ShortTag() {
	case "!!int", "!!float":
		*id = CategoryID{raw: value.Value, numeric: true}
	case "!!bool":
		*id = CategoryID{raw: value.Value, boolean: true}
	default:
		*id = CategoryID{raw: value.Value}
	}
	return nil
}
