package gen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	c := &Config{}

	assert.Equal(t, DefaultHeader, c.HeaderComment())
	assert.Equal(t, DefaultSuffix, c.FileSuffix())
	assert.Positive(t, c.NumWorkers())
	assert.Equal(t, zerolog.Disabled, c.Log().GetLevel())

	var nilConfig *Config
	assert.Equal(t, zerolog.Disabled, nilConfig.Log().GetLevel())
}

func TestConfigTypeConfig(t *testing.T) {
	t.Run("unknown type gets open strategy", func(t *testing.T) {
		c := &Config{}
		tc := c.TypeConfig("Car")

		assert.Equal(t, StrategyOpen, tc.Strategy)
		assert.Empty(t, tc.SetterPrefix)
	})

	t.Run("global strategy applies", func(t *testing.T) {
		c := &Config{Strategy: StrategyStrict}
		assert.Equal(t, StrategyStrict, c.TypeConfig("Car").Strategy)
	})

	t.Run("type strategy wins", func(t *testing.T) {
		c := &Config{
			Strategy: StrategyStrict,
			Types: map[string]TypeConfig{
				"Car": {Strategy: StrategyStepWise, BuilderConfig: BuilderConfig{SetterPrefix: "with"}},
			},
		}
		tc := c.TypeConfig("Car")

		assert.Equal(t, StrategyStepWise, tc.Strategy)
		assert.Equal(t, "with", tc.SetterPrefix)
		assert.Equal(t, StrategyStrict, c.TypeConfig("Truck").Strategy)
	})
}

func TestTypeConfigMerge(t *testing.T) {
	base := TypeConfig{
		Strategy: StrategyStrict,
		BuilderConfig: BuilderConfig{
			SetterPrefix:      "with",
			FactoryMethodName: "builder",
			ExcludeFields:     []string{"cache"},
		},
	}

	t.Run("empty override keeps base", func(t *testing.T) {
		assert.Equal(t, base, base.Merge(TypeConfig{}))
	})

	t.Run("override wins and exclusions union", func(t *testing.T) {
		m := base.Merge(TypeConfig{
			Strategy: StrategyOpen,
			BuilderConfig: BuilderConfig{
				SetterPrefix:  "set",
				ExcludeFields: []string{"id", "cache"},
			},
		})

		assert.Equal(t, StrategyOpen, m.Strategy)
		assert.Equal(t, "set", m.SetterPrefix)
		assert.Equal(t, "builder", m.FactoryMethodName)
		assert.Equal(t, []string{"cache", "id"}, m.ExcludeFields)
	})

	t.Run("does not alias base exclusions", func(t *testing.T) {
		m := base.Merge(TypeConfig{BuilderConfig: BuilderConfig{ExcludeFields: []string{"id"}}})
		m.ExcludeFields[0] = "changed"
		assert.Equal(t, []string{"cache"}, base.ExcludeFields)
	})
}
