package load

import (
	"errors"
	"go/ast"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stepgen/schema/field"
)

func TestLoad(t *testing.T) {
	schemas, err := Load("./testdata/valid", WithTypes("Engine"))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	car := schemas[0]
	assert.Equal(t, "Car", car.Name)
	assert.Equal(t, "valid", car.Package)
	assert.Equal(t, "github.com/syssam/stepgen/compiler/load/testdata/valid", car.PkgPath)
	require.NotNil(t, car.Directive)
	assert.Equal(t, "STRICT", car.Directive.Strategy)
	assert.Equal(t, "with", car.Directive.SetterPrefix)
	assert.Equal(t, []string{"cache"}, car.Directive.Exclude)
	assert.Equal(t, []string{"Notes"}, car.Exclude)

	names := make([]string, 0, len(car.Fields))
	for i, f := range car.Fields {
		names = append(names, f.Name)
		assert.Equal(t, i, f.Position)
	}
	assert.Equal(t, []string{"Make", "Model", "Year", "Built", "Brochure", "Options", "Notes", "cache", "Wheels", "OnService"}, names)

	assert.True(t, car.Field("Make").Mandatory)
	assert.False(t, car.Field("Model").Mandatory)
	assert.False(t, car.Field("cache").Exported())

	t.Run("types", func(t *testing.T) {
		assert.True(t, field.Named("string").Equal(car.Field("Make").Type))
		assert.True(t, field.Qualified("time", "time", "Time").Equal(car.Field("Built").Type))
		assert.True(t, field.PointerTo(field.Qualified("net/url", "url", "URL")).Equal(car.Field("Brochure").Type))
		assert.True(t, field.MapOf(field.Named("string"), field.SliceOf(field.Named("string"))).Equal(car.Field("Options").Type))
		assert.True(t, field.Qualified("gopkg.in/yaml.v3", "yaml", "Node").Equal(car.Field("Notes").Type))
		assert.True(t, field.ArrayOf("4", field.Named("int")).Equal(car.Field("Wheels").Type))
		assert.Equal(t, field.KindRaw, car.Field("OnService").Type.Kind)
		assert.Equal(t, "func(int) error", car.Field("OnService").Type.Expr)
	})

	t.Run("annotated constructor wins", func(t *testing.T) {
		c := car.Constructor
		require.NotNil(t, c)
		assert.Equal(t, "NewCarWithYear", c.Name)
		assert.True(t, c.Annotated)
		assert.False(t, c.Pointer)
		require.Len(t, c.Params, 3)
		assert.Equal(t, "Model", c.Params[0].Field)
		assert.Equal(t, "Year", c.Params[1].Field)
		assert.Empty(t, c.Params[2].Field)
		assert.True(t, car.Field("Model").ConstructorArg)
		assert.True(t, car.Field("Year").ConstructorArg)
		assert.False(t, car.Field("Make").ConstructorArg)
	})

	t.Run("selected by name", func(t *testing.T) {
		engine := schemas[1]
		assert.Equal(t, "Engine", engine.Name)
		assert.Nil(t, engine.Directive)
		assert.Nil(t, engine.Constructor)
		require.Len(t, engine.Fields, 3)
		assert.Equal(t, "Valves", engine.Fields[2].Name)
		assert.Equal(t, 2, engine.Fields[2].Position)
	})
}

func TestLoad_BuildConstraints(t *testing.T) {
	schemas, err := Load("./testdata/buildtags")
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	car := schemas[0]
	assert.Equal(t, "buildtags", car.Package)
	require.Len(t, car.Fields, 2)
	assert.Equal(t, "Make", car.Fields[0].Name)
	assert.True(t, car.Fields[0].Mandatory)
	assert.Equal(t, "Year", car.Fields[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing type", func(t *testing.T) {
		_, err := Load("./testdata/valid", WithTypes("Truck"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeNotFound))
	})

	t.Run("more than one annotated constructor", func(t *testing.T) {
		_, err := Load("./testdata/ambiguous")
		require.Error(t, err)
		var lerr *Error
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, "Shape", lerr.Type)
		assert.Contains(t, err.Error(), "only one constructor can be annotated")
	})

	t.Run("unknown tag option", func(t *testing.T) {
		_, err := Load("./testdata/badtag")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown step tag option "required"`)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := Load("./testdata/nope")
		require.Error(t, err)
	})

	t.Run("not a struct", func(t *testing.T) {
		dir := t.TempDir()
		src := "package p\n\n//stepgen:builder\ntype ID int\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "id.go"), []byte(src), 0o644))

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a struct")
	})

	t.Run("bad directive argument", func(t *testing.T) {
		dir := t.TempDir()
		src := "package p\n\n//stepgen:builder color=red\ntype Car struct{}\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "car.go"), []byte(src), 0o644))

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown directive argument "color"`)
	})
}

func TestLoad_ConstructorWithMostParameters(t *testing.T) {
	dir := t.TempDir()
	src := `package p

//stepgen:builder
type Point struct {
	X, Y, Z int
}

func NewPoint(x, y int) *Point { return &Point{X: x, Y: y} }

func NewPoint3(x, y, z int, tags ...string) *Point { return &Point{X: x, Y: y, Z: z} }

func NewOther() int { return 0 }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "point.go"), []byte(src), 0o644))

	schemas, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	c := schemas[0].Constructor
	require.NotNil(t, c)
	assert.Equal(t, "NewPoint3", c.Name)
	assert.True(t, c.Pointer)
	require.Len(t, c.Params, 4)
	assert.True(t, c.Params[3].Variadic)
	assert.True(t, field.Named("string").Equal(c.Params[3].Type))
	for _, f := range schemas[0].Fields {
		assert.True(t, f.ConstructorArg, f.Name)
	}
	assert.Empty(t, schemas[0].PkgPath)
}

func TestImportName(t *testing.T) {
	tests := map[string]string{
		"time":                       "time",
		"net/url":                    "url",
		"gopkg.in/yaml.v3":           "yaml",
		"github.com/urfave/cli/v3":   "cli",
		"github.com/go-openapi/spec": "spec",
		"github.com/mattn/go-isatty": "isatty",
	}
	for in, want := range tests {
		assert.Equal(t, want, importName(in), in)
	}
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		text   string
		marked bool
		want   *Directive
	}{
		{"//stepgen:builder", true, &Directive{}},
		{"//stepgen:builder factory=newCar prefix=set", true, &Directive{Factory: "newCar", SetterPrefix: "set"}},
		{"//stepgen:builder exclude=a,,b", true, &Directive{Exclude: []string{"a", "b"}}},
		{"//stepgen:builderx", false, nil},
		{"// stepgen:builder", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, marked, err := parseDirective(commentGroup(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.marked, marked)
			assert.Equal(t, tt.want, d)
		})
	}
}

func commentGroup(lines ...string) *ast.CommentGroup {
	g := &ast.CommentGroup{}
	for _, l := range lines {
		g.List = append(g.List, &ast.Comment{Text: l})
	}
	return g
}

func TestImportPath(t *testing.T) {
	p, err := ImportPath("./testdata/valid")
	require.NoError(t, err)
	assert.Equal(t, "github.com/syssam/stepgen/compiler/load/testdata/valid", p)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/cars\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "internal", "car"), 0o755))
	p, err = ImportPath(filepath.Join(dir, "internal", "car"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/cars/internal/car", p)
	p, err = ImportPath(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/cars", p)
}
