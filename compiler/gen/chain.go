package gen

import (
	"cmp"
	"slices"
)

// chain is the mandatory part of a builder protocol.
type chain struct {
	// first is the root setter; nil when no field is mandatory.
	first *Setter
	steps []Step
	// mandatory holds the names of the chained fields.
	mandatory map[string]struct{}
}

// effectiveMandatory returns the fields enforced in order: explicitly mandatory
// fields, plus constructor arguments when the strategy enforces them, minus
// exclusions, sorted by declaration order.
func effectiveMandatory(fields []*Field, strategy Strategy, exclude map[string]struct{}) []*Field {
	var mandatory []*Field
	for _, f := range fields {
		if _, ok := exclude[f.Name]; ok {
			continue
		}
		if f.Mandatory || f.ConstructorArg && strategy.EnforcesConstructor() {
			mandatory = append(mandatory, f)
		}
	}
	slices.SortStableFunc(mandatory, func(a, b *Field) int { return cmp.Compare(a.Order, b.Order) })
	return mandatory
}

// computeChain builds the step chain backwards: a step must return a stage that
// already exists, so the fold starts at the terminal and walks the mandatory
// fields from last to first. Steps are stored at their forward position.
func computeChain(fields []*Field, strategy Strategy, cfg BuilderConfig, terminal Ref) chain {
	mandatory := effectiveMandatory(fields, strategy, cfg.excluded())
	c := chain{mandatory: make(map[string]struct{}, len(mandatory))}
	for _, f := range mandatory {
		c.mandatory[f.Name] = struct{}{}
	}
	if len(mandatory) == 0 {
		return c
	}
	next := terminal
	if len(mandatory) > 1 {
		c.steps = make([]Step, len(mandatory)-1)
	}
	for i := len(mandatory) - 1; i > 0; i-- {
		ref := Ref{Kind: RefStep, Name: StepInterfaceName(mandatory[i-1].Name)}
		c.steps[i-1] = Step{Ref: ref, Setter: newSetter(mandatory[i], cfg, next)}
		next = ref
	}
	first := newSetter(mandatory[0], cfg, next)
	c.first = &first
	return c
}

func newSetter(f *Field, cfg BuilderConfig, returns Ref) Setter {
	return Setter{
		Name:    SetterName(f.Name, cfg),
		Field:   f.Name,
		Type:    f.Type,
		Returns: returns,
	}
}
