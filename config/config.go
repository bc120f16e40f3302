// Package config reads the stepgen.yaml project file.
//
// A project file configures generation for a package directory:
//
//	source: ./model
//	target: ./model
//	strategy: STRICT
//	types:
//	  Car:
//	    setter_prefix: with
//	    exclude: [cache]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/stepgen/compiler/gen"
)

// FileName is the name of the project file.
const FileName = "stepgen.yaml"

// ErrNotFound is returned by Find when no project file exists.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// Project is the content of a project file.
type Project struct {
	// Source is the directory of the buildable types.
	Source string `yaml:"source,omitempty"`
	// Target is the output directory.
	Target        string               `yaml:"target,omitempty"`
	Package       string               `yaml:"package,omitempty"`
	SourcePackage string               `yaml:"source_package,omitempty"`
	Header        string               `yaml:"header,omitempty"`
	Strategy      gen.Strategy         `yaml:"strategy,omitempty"`
	Suffix        string               `yaml:"suffix,omitempty"`
	Workers       int                  `yaml:"workers,omitempty"`
	Types         map[string]TypeEntry `yaml:"types,omitempty"`

	// dir is the directory of the file the project was loaded from.
	dir string
}

// TypeEntry holds the options of a single type.
type TypeEntry struct {
	Strategy     gen.Strategy `yaml:"strategy,omitempty"`
	SetterPrefix string       `yaml:"setter_prefix,omitempty"`
	Exclude      StringList   `yaml:"exclude,omitempty"`
	Factory      string       `yaml:"factory,omitempty"`
}

// TypeConfig converts the entry into generator options.
func (e TypeEntry) TypeConfig() gen.TypeConfig {
	return gen.TypeConfig{
		Strategy: e.Strategy,
		BuilderConfig: gen.BuilderConfig{
			SetterPrefix:      e.SetterPrefix,
			ExcludeFields:     slices.Clone(e.Exclude),
			FactoryMethodName: e.Factory,
		},
	}
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Find looks for a project file in dir and its parents, stopping at the
// module root. It returns ErrNotFound when there is none.
func Find(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving %s: %w", dir, err)
	}
	for {
		path := filepath.Join(cur, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: %w", err)
		}
		if _, err := os.Stat(filepath.Join(cur, "go.mod")); err == nil {
			return "", ErrNotFound
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", ErrNotFound
		}
		cur = parent
	}
}

// Load reads the project file at path. Unknown keys are errors.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	p, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, gen.NewConfigError(FileName, path, err.Error())
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// Parse decodes a project file. Relative paths of the result are resolved
// against the working directory.
func Parse(r io.Reader) (*Project, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	p := &Project{}
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	return p, nil
}

// Save writes the project file to path.
func Save(path string, p *Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal project: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Dir returns the directory of the loaded file, or "" for parsed projects.
func (p *Project) Dir() string {
	return p.dir
}

// SourceDir returns the source directory resolved against the project file.
// It defaults to the directory of the project file.
func (p *Project) SourceDir() string {
	if p.Source == "" {
		return p.dir
	}
	return p.resolve(p.Source)
}

// TargetDir returns the target directory resolved against the project file.
func (p *Project) TargetDir() string {
	if p.Target == "" {
		return ""
	}
	return p.resolve(p.Target)
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}

// Options maps the project onto generator options. Types are added in name
// order.
func (p *Project) Options() []gen.Option {
	var opts []gen.Option
	if t := p.TargetDir(); t != "" {
		opts = append(opts, gen.WithTarget(t))
	}
	if p.Package != "" {
		opts = append(opts, gen.WithPackage(p.Package))
	}
	if p.SourcePackage != "" {
		opts = append(opts, gen.WithSourcePackage(p.SourcePackage))
	}
	if p.Header != "" {
		opts = append(opts, gen.WithHeader(p.Header))
	}
	if p.Strategy != gen.StrategyUnset {
		opts = append(opts, gen.WithStrategy(p.Strategy))
	}
	if p.Suffix != "" {
		opts = append(opts, gen.WithSuffix(p.Suffix))
	}
	if p.Workers != 0 {
		opts = append(opts, gen.WithWorkers(p.Workers))
	}
	for _, name := range p.TypeNames() {
		opts = append(opts, gen.WithBuilder(name, p.Types[name].TypeConfig()))
	}
	return opts
}

// TypeNames returns the names of the configured types, sorted.
func (p *Project) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for name := range p.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
