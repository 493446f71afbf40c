package gauge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec reads and writes unit tables. Decoding is strict: unknown keys and
// trailing documents are errors, so a misspelled field in a catalog file
// fails loudly instead of yielding an empty label or category.
type Codec interface {
	// Decode parses data into v.
	Decode(data []byte, v any) error

	// Encode renders v.
	Encode(v any) ([]byte, error)

	// ContentType returns the MIME type, used in error messages.
	ContentType() string
}

// JSONCodec reads and writes JSON tables.
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after table")
	}
	return nil
}

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec) ContentType() string { return "application/json" }

// YAMLCodec reads and writes YAML tables.
type YAMLCodec struct{}

func (YAMLCodec) Decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty table")
		}
		return err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected document after table")
	}
	return nil
}

func (YAMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) ContentType() string { return "application/x-yaml" }

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// CodecFor picks a codec from a file name or bare format name: ".yaml",
// ".yml", "yaml" and "yml" select YAML, ".json" and "json" JSON.
func CodecFor(name string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(name)
	}
	switch ext {
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	case ".json":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("no codec for %q (want json or yaml)", name)
	}
}
