//go:build mage

package main

import "github.com/magefile/mage/sh"

// Convert converts every platform export under data/ to standard TSV.
func Convert() error {
	ensureBuilt()
	return sh.RunV(binPath, "convert", "all")
}
