package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alfredjeanlab/dsm/internal/model"
)

// codec converts the context set to and from its on-disk form.
type codec interface {
	decode(data []byte) (model.Contexts, error)
	encode(cs model.Contexts) ([]byte, error)
}

// codecFor picks the file format from the path's extension. Anything that
// is not .toml is treated as JSON.
func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlCodec{}
	}
	return jsonCodec{}
}

// jsonCodec stores contexts as a top-level object keyed by name.
type jsonCodec struct{}

func (jsonCodec) decode(data []byte) (model.Contexts, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var cs model.Contexts
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return cs, nil
}

func (jsonCodec) encode(cs model.Contexts) ([]byte, error) {
	data, err := json.MarshalIndent(cs, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// tomlFile is the TOML layout: one [contexts.<name>] table per context.
type tomlFile struct {
	Contexts model.Contexts `toml:"contexts"`
}

type tomlCodec struct{}

func (tomlCodec) decode(data []byte) (model.Contexts, error) {
	var f tomlFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}
	return f.Contexts, nil
}

func (tomlCodec) encode(cs model.Contexts) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlFile{Contexts: cs}); err != nil {
		return nil, fmt.Errorf("encoding toml: %w", err)
	}
	return buf.Bytes(), nil
}
