// Package format reads and writes graphs as Tetrad text, JSON, YAML, TOML
// and Graphviz DOT.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/imyousuf/graphselect/internal/graph"
)

// ErrUnknownFormat is returned for a format name or file extension that no
// codec handles.
var ErrUnknownFormat = errors.New("unknown graph format")

// Format names a graph encoding.
type Format string

const (
	Text Format = "txt"
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	DOT  Format = "dot"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{Text, JSON, YAML, TOML, DOT}
}

// Parse accepts a format name or a file extension with or without the dot.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "txt", "text", "tetrad":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	case "dot", "gv":
		return DOT, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", path, ErrUnknownFormat)
	}
	return Parse(ext)
}

// Read decodes a graph in format f.
func Read(r io.Reader, f Format) (*graph.Graph, error) {
	switch f {
	case Text:
		return ReadText(r)
	case DOT:
		return ReadDOT(r)
	case JSON, YAML, TOML:
		doc, err := ReadDocument(r, f)
		if err != nil {
			return nil, err
		}
		return doc.Graph()
	}
	return nil, fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// ReadDocument decodes a JSON, YAML or TOML document without building the
// graph, so the caller keeps the stored name.
func ReadDocument(r io.Reader, f Format) (*graph.Document, error) {
	var doc graph.Document
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case TOML:
		err = toml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%q is not a document format: %w", f, ErrUnknownFormat)
	}
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: empty input", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return &doc, nil
}

// Write encodes g in format f.
func Write(w io.Writer, g *graph.Graph, f Format) error {
	return WriteNamed(w, "", g, f)
}

// WriteNamed encodes g in format f, recording name where the format has a
// place for it.
func WriteNamed(w io.Writer, name string, g *graph.Graph, f Format) error {
	switch f {
	case Text:
		return WriteText(w, g)
	case DOT:
		return WriteDOTNamed(w, name, g, nil)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(graph.ToDocument(name, g))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(graph.ToDocument(name, g)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(graph.ToDocument(name, g))
	}
	return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// LoadFile reads a graph, picking the format from the extension.
func LoadFile(path string) (*graph.Graph, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	g, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// SaveFile writes g, picking the format from the extension.
func SaveFile(path string, g *graph.Graph) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, g, f); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// GraphName derives a catalog name from a file path: the base name without
// its extension.
func GraphName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
