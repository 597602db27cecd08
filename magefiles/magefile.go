//go:build mage

// Package main contains Mage build targets for argos-import developer tooling.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/argos-import/internal/argos"
	"github.com/pdiddy/argos-import/pkg/types"
)

// projectDirs lists the working directories the Import target expects.
var projectDirs = []string{
	"data/argos",
	"output",
}

const (
	binDir  = "bin"
	binName = "argos-import"
	cmdPkg  = "./cmd/argos-import"

	sampleInput  = "data/argos"
	sampleOutput = "output/tracks.gpkg/argos"
)

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

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Import builds the binary and imports data/argos into output/tracks.gpkg.
func Import() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "import", sampleInput, sampleOutput, "EPSG:4326")
}

// Stats prints record counts for the sample ARGOS files in data/argos.
func Stats() error {
	entries, err := os.ReadDir(sampleInput)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sampleInput, err)
	}

	files, records := 0, 0
	for _, e := range entries {
		if e.IsDir() || e.Name() == types.DefaultSkipFile {
			continue
		}
		n, err := countRecords(filepath.Join(sampleInput, e.Name()))
		if err != nil {
			return err
		}
		fmt.Printf("  %-30s %6d records\n", e.Name(), n)
		files++
		records += n
	}
	fmt.Printf("ARGOS sample files: %d, records: %d\n", files, records)
	return nil
}

// countRecords counts the records the import would read from path.
func countRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := argos.NewReader(f, filepath.Base(path))
	n := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
