package store

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/alfredjeanlab/dsm/internal/model"
)

// File is a Store backed by a single JSON (or TOML) file.
type File struct {
	path     string
	codec    codec
	contexts model.Contexts
}

var _ Store = (*File)(nil)

// Open loads the contexts file at path. A missing file yields a store
// holding only the default context; nothing is written until Save.
func Open(path string) (*File, error) {
	f := &File{path: path, codec: codecFor(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		f.contexts = model.NewContexts()
		return f, nil
	}

	cs, err := f.codec.decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if len(cs) == 0 {
		cs = model.NewContexts()
	}
	for name, c := range cs {
		if c == nil {
			c = &model.Context{}
			cs[name] = c
		}
		c.Name = name
	}
	f.contexts = cs
	return f, nil
}

// Path returns the file the store reads and writes.
func (f *File) Path() string { return f.path }

func (f *File) Get(name string) (*model.Context, bool) {
	c, ok := f.contexts[name]
	return c, ok
}

func (f *File) Resolve(name string) (*model.Context, error) {
	if c, ok := f.contexts[name]; ok {
		return c, nil
	}
	c := &model.Context{Name: name}
	if err := c.Inherit(f.contexts[model.DefaultName]); err != nil {
		return nil, err
	}
	f.contexts[name] = c
	return c, nil
}

func (f *File) Put(c *model.Context) {
	f.contexts[c.Name] = c
}

func (f *File) Delete(name string) error {
	if _, ok := f.contexts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(f.contexts, name)
	return nil
}

// List returns all contexts sorted by name.
func (f *File) List() []*model.Context {
	out := make([]*model.Context, 0, len(f.contexts))
	for _, name := range slices.Sorted(maps.Keys(f.contexts)) {
		out = append(out, f.contexts[name])
	}
	return out
}

func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := f.codec.encode(f.contexts)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", f.path, err)
	}
	return nil
}
