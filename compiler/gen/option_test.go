package gen

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
		assert.Equal(t, "Custom header", c.HeaderComment())
	})

	t.Run("empty header falls back to default", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
		assert.Equal(t, DefaultHeader, c.HeaderComment())
	})
}

func TestWithPackage(t *testing.T) {
	t.Run("sets package", func(t *testing.T) {
		c := &Config{}
		err := WithPackage("builders")(c)

		require.NoError(t, err)
		assert.Equal(t, "builders", c.Package)
	})

	for _, name := range []string{"", "github.com/org/builders", "my-pkg"} {
		t.Run("invalid "+name, func(t *testing.T) {
			c := &Config{}
			err := WithPackage(name)(c)

			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestWithSourcePackage(t *testing.T) {
	t.Run("sets import path", func(t *testing.T) {
		c := &Config{}
		err := WithSourcePackage("github.com/org/project/model")(c)

		require.NoError(t, err)
		assert.Equal(t, "github.com/org/project/model", c.SourcePackage)
	})

	t.Run("empty path returns error", func(t *testing.T) {
		err := WithSourcePackage("")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("path with spaces returns error", func(t *testing.T) {
		err := WithSourcePackage("github.com/org/my project")(&Config{})
		require.Error(t, err)
	})
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target directory", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("./builders")(c)

		require.NoError(t, err)
		assert.Equal(t, "./builders", c.Target)
	})

	t.Run("empty target returns error", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithStrategy(t *testing.T) {
	t.Run("sets strategy", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithStrategy(StrategyStrict)(c))
		assert.Equal(t, StrategyStrict, c.Strategy)
	})

	t.Run("invalid strategy returns error", func(t *testing.T) {
		err := WithStrategy(Strategy(7))(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithBuilder(t *testing.T) {
	t.Run("sets type config", func(t *testing.T) {
		c := &Config{}
		err := WithBuilder("Car", TypeConfig{Strategy: StrategyStepWise})(c)

		require.NoError(t, err)
		assert.Equal(t, StrategyStepWise, c.Types["Car"].Strategy)
	})

	t.Run("merges repeated calls", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithBuilder("Car", TypeConfig{
				Strategy:      StrategyStrict,
				BuilderConfig: BuilderConfig{SetterPrefix: "with", ExcludeFields: []string{"cache"}},
			}),
			WithBuilder("Car", TypeConfig{
				BuilderConfig: BuilderConfig{FactoryMethodName: "create", ExcludeFields: []string{"cache", "id"}},
			}),
		)

		require.NoError(t, err)
		car := c.Types["Car"]
		assert.Equal(t, StrategyStrict, car.Strategy)
		assert.Equal(t, "with", car.SetterPrefix)
		assert.Equal(t, "create", car.FactoryMethodName)
		assert.Equal(t, []string{"cache", "id"}, car.ExcludeFields)
	})

	t.Run("invalid type name returns error", func(t *testing.T) {
		err := WithBuilder("my car", TypeConfig{})(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("invalid strategy returns error", func(t *testing.T) {
		err := WithBuilder("Car", TypeConfig{Strategy: Strategy(9)})(&Config{})
		require.Error(t, err)
	})
}

func TestWithSuffix(t *testing.T) {
	tests := []struct {
		suffix  string
		wantErr bool
	}{
		{"_builder.go", false},
		{".gen.go", false},
		{"_builder", true},
		{"_builder_test.go", true},
	}
	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			c := &Config{}
			err := WithSuffix(tt.suffix)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suffix, c.FileSuffix())
		})
	}
}

func TestWithWorkers(t *testing.T) {
	t.Run("sets workers", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithWorkers(3)(c))
		assert.Equal(t, 3, c.NumWorkers())
	})

	t.Run("zero means GOMAXPROCS", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithWorkers(0)(c))
		assert.Positive(t, c.NumWorkers())
	})

	t.Run("negative returns error", func(t *testing.T) {
		require.Error(t, WithWorkers(-1)(&Config{}))
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	c := &Config{}
	require.NoError(t, WithLogger(zerolog.New(&buf))(c))

	log := c.Log()
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestWithHooks(t *testing.T) {
	t.Run("adds hooks", func(t *testing.T) {
		hook := func(next Generator) Generator { return next }
		c := &Config{}
		err := WithHooks(hook)(c)

		require.NoError(t, err)
		assert.Equal(t, 1, len(c.Hooks))
	})

	t.Run("appends to existing hooks", func(t *testing.T) {
		hook1 := func(next Generator) Generator { return next }
		hook2 := func(next Generator) Generator { return next }
		c := &Config{Hooks: []Hook{hook1}}
		err := WithHooks(hook2)(c)

		require.NoError(t, err)
		assert.Equal(t, 2, len(c.Hooks))
	})

	t.Run("nil hook returns error", func(t *testing.T) {
		err := WithHooks(nil)(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("applies multiple options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithPackage("builders"),
			WithTarget("./builders"),
			WithHeader("Custom"),
		)

		require.NoError(t, err)
		assert.Equal(t, "builders", c.Package)
		assert.Equal(t, "./builders", c.Target)
		assert.Equal(t, "Custom", c.Header)
	})

	t.Run("stops on first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithPackage(""),          // Error
			WithTarget("./builders"), // Should not be applied
		)

		require.Error(t, err)
		assert.Empty(t, c.Package)
		assert.Empty(t, c.Target)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithPackage(""), // Error
			WithTarget(""),  // Error
		)

		require.Error(t, err)
		// errors.Join returns an error with Unwrap() []error
		unwrapper, ok := err.(interface{ Unwrap() []error })
		require.True(t, ok, "error should implement Unwrap() []error")
		assert.Equal(t, 2, len(unwrapper.Unwrap()))
	})

	t.Run("returns nil when all succeed", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithPackage("builders"),
			WithTarget("./builders"),
		)

		require.NoError(t, err)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("creates config with options", func(t *testing.T) {
		c, err := NewConfig(
			WithPackage("builders"),
			WithTarget("./builders"),
		)

		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "builders", c.Package)
		assert.Equal(t, "./builders", c.Target)
	})

	t.Run("returns error on invalid option", func(t *testing.T) {
		c, err := NewConfig(
			WithPackage(""),
		)

		require.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestMustNewConfig(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		c := MustNewConfig(
			WithPackage("builders"),
		)

		require.NotNil(t, c)
		assert.Equal(t, "builders", c.Package)
	})

	t.Run("panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithPackage(""))
		})
	})
}
