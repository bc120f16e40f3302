// Package describe encodes synthesized builder descriptors for emitters that
// live outside of this module. A document can be written as JSON, YAML or
// MessagePack and decoded back into equal descriptors.
package describe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/stepgen/compiler/gen"
)

// Version is the document format version.
const Version = 1

// Format is a document encoding.
type Format string

// Supported formats.
const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	Msgpack Format = "msgpack"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, Msgpack}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, Msgpack:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", gen.NewConfigError("Format", s, "unsupported descriptor format")
	}
}

// Document is a set of descriptors together with the options they were
// synthesized with.
type Document struct {
	Version int     `json:"version" yaml:"version"`
	Types   []*Type `json:"types" yaml:"types"`
}

// Type is a single described type.
type Type struct {
	Name       string          `json:"name" yaml:"name"`
	Package    string          `json:"package" yaml:"package"`
	Strategy   gen.Strategy    `json:"strategy" yaml:"strategy"`
	Fields     []*gen.Field    `json:"fields" yaml:"fields"`
	Descriptor *gen.Descriptor `json:"descriptor" yaml:"descriptor"`
}

// New returns the document describing every type of g, sorted by name.
func New(g *gen.Graph) *Document {
	doc := &Document{Version: Version, Types: make([]*Type, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		doc.Types = append(doc.Types, &Type{
			Name:       n.Name,
			Package:    n.Package,
			Strategy:   n.Options.Strategy,
			Fields:     n.Fields,
			Descriptor: n.Descriptor,
		})
	}
	slices.SortFunc(doc.Types, func(a, b *Type) int { return strings.Compare(a.Name, b.Name) })
	return doc
}

// Lookup returns the described type with the given name, or nil.
func (d *Document) Lookup(name string) *Type {
	for _, t := range d.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, f Format, doc *Document) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case Msgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(doc)
	default:
		return gen.NewConfigError("Format", string(f), "unsupported descriptor format")
	}
}

// Marshal returns the encoding of doc in format f.
func Marshal(f Format, doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a document in format f from r. Every decoded descriptor is
// validated.
func Decode(r io.Reader, f Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch f {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(doc)
	case Msgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		err = dec.Decode(doc)
	default:
		return nil, gen.NewConfigError("Format", string(f), "unsupported descriptor format")
	}
	if err != nil {
		return nil, fmt.Errorf("describe: decode %s: %w", f, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("describe: unsupported document version %d", doc.Version)
	}
	for _, t := range doc.Types {
		if t.Descriptor == nil {
			return nil, fmt.Errorf("describe: type %s: missing descriptor", t.Name)
		}
		if err := t.Descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("describe: type %s: %w", t.Name, err)
		}
	}
	return doc, nil
}

// Unmarshal parses a document encoded in format f.
func Unmarshal(f Format, data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data), f)
}
