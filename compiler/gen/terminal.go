package gen

import (
	"cmp"
	"slices"
)

// computeTerminal builds the terminal stage. Every field that is neither
// excluded nor chained gets a fluent setter returning the terminal itself.
func computeTerminal(fields []*Field, mandatory map[string]struct{}, cfg BuilderConfig, self, product Ref) Terminal {
	exclude := cfg.excluded()
	ordered := slices.Clone(fields)
	slices.SortStableFunc(ordered, func(a, b *Field) int { return cmp.Compare(a.Order, b.Order) })

	t := Terminal{
		Ref:   self,
		Build: Method{Name: BuildMethodName, Returns: product},
	}
	for _, f := range ordered {
		if _, ok := exclude[f.Name]; ok {
			continue
		}
		if _, ok := mandatory[f.Name]; ok {
			continue
		}
		t.Setters = append(t.Setters, newSetter(f, cfg, self))
	}
	return t
}
