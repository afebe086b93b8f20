//go:build mage

// Package main contains Mage build targets for taxonomy-tsv developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the converters expect.
var projectDirs = []string{
	"data",
	"index",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "taxonomy-tsv"
	cmdPkg  = "./cmd/taxonomy-tsv"
)

// binPath is the location Build writes the CLI to.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-tags", "sqlite_fts5", "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "-tags", "sqlite_fts5", "./...")
}

// Stats prints project metrics: Go production/test LOC and Markdown word count.
func Stats() error {
	var prodLines, testLines, docWords int
	err := walkProject(func(path string) error {
		switch {
		case strings.HasSuffix(path, "_test.go"):
			n, err := countNonBlankLines(path)
			testLines += n
			return err
		case filepath.Ext(path) == ".go":
			n, err := countNonBlankLines(path)
			prodLines += n
			return err
		case filepath.Ext(path) == ".md":
			n, err := countWords(path)
			docWords += n
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (Markdown):               %d\n", docWords)
	return nil
}

// ensureBuilt is a dependency for targets that run the CLI.
func ensureBuilt() {
	mg.Deps(Init, Build)
}

// walkProject calls fn for every regular file under the working directory,
// skipping directories the go tool ignores (leading "_" or ".") and bin/.
func walkProject(fn func(path string) error) error {
	return filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path)
	})
}

func countNonBlankLines(path string) (int, error) {
	n := 0
	err := scanFile(path, bufio.ScanLines, func(line string) {
		if strings.TrimSpace(line) != "" {
			n++
		}
	})
	return n, err
}

func countWords(path string) (int, error) {
	n := 0
	err := scanFile(path, bufio.ScanWords, func(string) { n++ })
	return n, err
}

func scanFile(path string, split bufio.SplitFunc, fn func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	sc.Split(split)
	for sc.Scan() {
		fn(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
