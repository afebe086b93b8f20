// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the taxonomy-tsv converters.
// A Row is the unit every converter produces and every writer consumes;
// Platform names the marketplace export a row came from.
package types

import "fmt"

// Row is one flattened category: its identifier and the full path of display
// names from the taxonomy root down to the category itself.
type Row struct {
	// ID is the category identifier as written by the source export.
	ID string `json:"category_id" yaml:"category_id"`

	// Text is the " > "-joined ancestor-to-self name chain.
	Text string `json:"category_text" yaml:"category_text"`
}

// PathSeparator joins ancestor names in Row.Text.
const PathSeparator = " > "

// JoinPath appends name to parent using PathSeparator. An empty parent
// yields name unchanged.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + PathSeparator + name
}

// Platform identifies a marketplace taxonomy export.
type Platform string

const (
	PlatformOzon    Platform = "ozon"
	PlatformYandex  Platform = "yandex"
	PlatformShopify Platform = "shopify"
)

// Platforms lists every supported platform in conversion order.
var Platforms = []Platform{PlatformOzon, PlatformYandex, PlatformShopify}

// ParsePlatform validates s against the supported platforms.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q: use ozon, yandex, or shopify", s)
}
