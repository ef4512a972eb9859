// Package site owns the output directory: it resets it and persists
// rendered documents.
package site

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const IndexFile = "index.html"

// RenderFunc writes one document.
type RenderFunc func(w io.Writer) error

type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: filepath.Clean(dir)}
}

func (w *Writer) Dir() string {
	return w.dir
}

// Reset removes the output directory and recreates it empty.
func (w *Writer) Reset() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove output directory %s: %w", w.dir, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", w.dir, err)
	}
	return nil
}

// WritePage renders into memory first so a template failure never leaves a
// truncated file behind.
func (w *Writer) WritePage(name string, render RenderFunc) error {
	if err := validName(name); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) WriteIndex(render RenderFunc) error {
	return w.WritePage(IndexFile, render)
}

// Files lists the regular files in the output directory, sorted by name.
func (w *Writer) Files() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("list output directory %s: %w", w.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid page name %q", name)
	}
	return nil
}
