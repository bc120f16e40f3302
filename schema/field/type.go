package field

import (
	"fmt"
	"strings"
)

// Kind is the shape of a type expression.
type Kind uint8

// Type expression kinds.
const (
	KindInvalid Kind = iota
	KindNamed
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindChan
	KindRaw
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNamed:   "named",
	KindPointer: "pointer",
	KindSlice:   "slice",
	KindArray:   "array",
	KindMap:     "map",
	KindChan:    "chan",
	KindRaw:     "raw",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("field: cannot marshal kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("field: unknown kind %q", text)
}

// TypeRef references the declared type of a field.
type TypeRef struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// Name is the identifier of a named type ("string", "Time").
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// PkgPath and PkgName are set for qualified named types.
	PkgPath string `json:"pkg_path,omitempty" yaml:"pkg_path,omitempty"`
	PkgName string `json:"pkg_name,omitempty" yaml:"pkg_name,omitempty"`
	// Len is the length expression of an array.
	Len string `json:"len,omitempty" yaml:"len,omitempty"`
	// Dir is the channel direction: "", "send" or "recv".
	Dir  string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	Key  *TypeRef `json:"key,omitempty" yaml:"key,omitempty"`
	Elem *TypeRef `json:"elem,omitempty" yaml:"elem,omitempty"`
	// Expr holds the source text of types that have no structured form (func,
	// struct and interface literals, generic instantiations).
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`
}

// Named returns a reference to a predeclared or package-local type.
func Named(name string) *TypeRef {
	return &TypeRef{Kind: KindNamed, Name: name}
}

// Qualified returns a reference to a type declared in another package.
func Qualified(pkgPath, pkgName, name string) *TypeRef {
	return &TypeRef{Kind: KindNamed, Name: name, PkgPath: pkgPath, PkgName: pkgName}
}

// PointerTo returns a pointer to elem.
func PointerTo(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindPointer, Elem: elem}
}

// SliceOf returns a slice of elem.
func SliceOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindSlice, Elem: elem}
}

// ArrayOf returns an array of elem with the given length expression.
func ArrayOf(n string, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindArray, Len: n, Elem: elem}
}

// MapOf returns a map from key to elem.
func MapOf(key, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindMap, Key: key, Elem: elem}
}

// ChanOf returns a channel of elem. dir is "", "send" or "recv".
func ChanOf(dir string, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindChan, Dir: dir, Elem: elem}
}

// Raw returns a reference that is kept as source text.
func Raw(expr string) *TypeRef {
	return &TypeRef{Kind: KindRaw, Expr: expr}
}

// Qualified reports whether the type, or any type it is composed of, lives in
// another package.
func (t *TypeRef) Qualified() bool {
	if t == nil {
		return false
	}
	return t.PkgPath != "" || t.Key.Qualified() || t.Elem.Qualified()
}

// Equal reports whether t and o describe the same type.
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Kind == o.Kind &&
		t.Name == o.Name &&
		t.PkgPath == o.PkgPath &&
		t.PkgName == o.PkgName &&
		t.Len == o.Len &&
		t.Dir == o.Dir &&
		t.Expr == o.Expr &&
		t.Key.Equal(o.Key) &&
		t.Elem.Equal(o.Elem)
}

// String returns the Go spelling of the type.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindNamed:
		if t.PkgName != "" {
			b.WriteString(t.PkgName)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
	case KindPointer:
		b.WriteByte('*')
		t.Elem.write(b)
	case KindSlice:
		b.WriteString("[]")
		t.Elem.write(b)
	case KindArray:
		b.WriteByte('[')
		b.WriteString(t.Len)
		b.WriteByte(']')
		t.Elem.write(b)
	case KindMap:
		b.WriteString("map[")
		t.Key.write(b)
		b.WriteByte(']')
		t.Elem.write(b)
	case KindChan:
		switch t.Dir {
		case "send":
			b.WriteString("chan<- ")
		case "recv":
			b.WriteString("<-chan ")
		default:
			b.WriteString("chan ")
		}
		t.Elem.write(b)
	case KindRaw:
		b.WriteString(t.Expr)
	default:
		b.WriteString("<invalid>")
	}
}
