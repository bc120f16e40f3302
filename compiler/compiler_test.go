package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stepgen/compiler/gen"
	"github.com/syssam/stepgen/compiler/load"
)

const carSource = `package cars

//stepgen:builder
type Car struct {
	Make  string ` + "`step:\"mandatory\"`" + `
	Model string ` + "`step:\"mandatory\"`" + `
	Year  int
}
`

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/cars\n\ngo 1.23\n"), 0o644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadGraph(t *testing.T) {
	dir := writeModule(t, map[string]string{"car.go": carSource})

	g, err := LoadGraph(dir, &gen.Config{})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	car := g.Nodes[0]
	assert.Equal(t, "example.com/cars", car.PkgPath)
	assert.Len(t, car.Descriptor.Steps, 1)
	assert.Equal(t, "MakeStep", car.Descriptor.Steps[0].Ref.Name)
}

func TestLoadGraph_Errors(t *testing.T) {
	t.Run("classification error", func(t *testing.T) {
		_, err := LoadGraph("load/testdata/ambiguous", &gen.Config{})
		require.Error(t, err)
		assert.True(t, gen.IsSchemaError(err))
		var le *load.Error
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "Shape", le.Type)
	})

	t.Run("type not found", func(t *testing.T) {
		dir := writeModule(t, map[string]string{"car.go": carSource})
		_, err := LoadGraph(dir, &gen.Config{}, load.WithTypes("Truck"))
		require.Error(t, err)
		assert.True(t, gen.IsSchemaError(err))
		assert.ErrorIs(t, err, load.ErrTypeNotFound)
	})

	t.Run("no buildable types", func(t *testing.T) {
		dir := writeModule(t, map[string]string{"doc.go": "package cars\n\ntype Car struct{}\n"})
		_, err := LoadGraph(dir, &gen.Config{})
		require.Error(t, err)
		assert.True(t, gen.IsSchemaError(err))
		assert.Contains(t, err.Error(), load.BuilderDirective)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadGraph(filepath.Join(t.TempDir(), "missing"), &gen.Config{})
		require.Error(t, err)
		assert.False(t, gen.IsSchemaError(err))
	})
}

func TestRun(t *testing.T) {
	dir := writeModule(t, map[string]string{"car.go": carSource})
	ctx := context.Background()

	_, err := Run(ctx, dir, &gen.Config{})
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(dir, "car_builder.go"))
	require.NoError(t, err)
	out := string(buf)
	assert.Contains(t, out, "// "+gen.DefaultHeader)
	assert.Contains(t, out, "package cars")
	assert.Contains(t, out, "type CarBuilder interface {")
	assert.Contains(t, out, "type CarBuilderMakeStep interface {")
	assert.Contains(t, out, "func NewCarBuilder() CarBuilder {")
	assert.Contains(t, out, "Build() *Car")

	// The generated file is skipped by the loader, so a second run is
	// stable.
	_, err = Run(ctx, dir, &gen.Config{})
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(dir, "car_builder.go"))
	require.NoError(t, err)
	assert.Equal(t, out, string(again))
}

func TestRun_OtherPackage(t *testing.T) {
	dir := writeModule(t, map[string]string{"car.go": carSource})
	target := filepath.Join(dir, "builders")
	c := gen.MustNewConfig(gen.WithTarget(target), gen.WithPackage("builders"))

	_, err := Run(context.Background(), dir, c)
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(target, "car_builder.go"))
	require.NoError(t, err)
	out := string(buf)
	assert.Contains(t, out, "package builders")
	assert.Contains(t, out, `"example.com/cars"`)
	assert.Contains(t, out, "Build() *cars.Car")
}
