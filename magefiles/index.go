//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Index loads the converted TSV files into the category search index.
func Index() error {
	mg.Deps(Convert)
	return sh.RunV(binPath, "index", "build")
}
