package gen

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// TerminalInterfaceName names the stage that exposes the optional setters
	// and the build operation.
	TerminalInterfaceName = "BuildStep"
	// BuildMethodName names the operation that constructs the product.
	BuildMethodName = "build"
	// DefaultFactoryMethodName is used when no factory name is configured.
	DefaultFactoryMethodName = "newBuilder"
)

// BuilderConfig holds the per-type builder options.
type BuilderConfig struct {
	// SetterPrefix is prepended to setter names ("with" gives "withMake").
	SetterPrefix string `json:"setter_prefix,omitempty" yaml:"setter_prefix,omitempty"`
	// ExcludeFields lists fields that get no setter at all.
	ExcludeFields []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// FactoryMethodName overrides DefaultFactoryMethodName.
	FactoryMethodName string `json:"factory,omitempty" yaml:"factory,omitempty"`
}

// excluded returns the exclusion set of the config.
func (c BuilderConfig) excluded() map[string]struct{} {
	return names(c.ExcludeFields...)
}

// Capitalize upper-cases the first letter of s and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return cases.Title(language.Und, cases.NoLower).String(s[:n]) + s[n:]
}

// BuilderInterfaceName returns the root interface name for typeName.
func BuilderInterfaceName(typeName string) string {
	return typeName + "Builder"
}

// StepInterfaceName returns the name of the step reached after setting the
// given field.
func StepInterfaceName(fieldName string) string {
	return Capitalize(fieldName) + "Step"
}

// SetterName returns the setter method name of a field.
func SetterName(fieldName string, cfg BuilderConfig) string {
	if cfg.SetterPrefix == "" {
		return fieldName
	}
	return cfg.SetterPrefix + Capitalize(fieldName)
}

// FactoryMethodName returns the name of the builder factory.
func FactoryMethodName(cfg BuilderConfig) string {
	if cfg.FactoryMethodName != "" {
		return cfg.FactoryMethodName
	}
	return DefaultFactoryMethodName
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}
