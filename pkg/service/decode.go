package service

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/svcgraph/pkg/errors"
)

// Format is an input document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name, accepting "yml" for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q (must be json, toml or yaml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// tomlDocument is the TOML shape: TOML has no top-level arrays, so entries
// live under a "services" table array.
type tomlDocument struct {
	Services []Entry `toml:"services"`
}

// Decode reads entries in the given format.
func Decode(r io.Reader, f Format) ([]Entry, error) {
	var entries []Entry
	switch f {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		entries = doc.Services
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", f)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, f Format) ([]Entry, error) {
	return Decode(bytes.NewReader(data), f)
}

// Encode writes entries in the given format. JSON output is indented.
func Encode(w io.Writer, entries []Entry, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlDocument{Services: entries})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(entries); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", f)
}

// ReadFile decodes a document from disk. The format comes from the file
// extension and the document name is the base name without extension.
func ReadFile(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()

	entries, err := Decode(file, f)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Document{Name: NameFromPath(path), Entries: entries}, nil
}

// NameFromPath derives a document name from a file path.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
