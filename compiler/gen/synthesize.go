package gen

// Synthesize computes the step builder protocol of typeName declared in
// package pkg. It is pure: equal arguments always yield Equal descriptors.
//
// The shape depends on the number N of effective mandatory fields:
//
//	N == 0: no steps; the factory returns the terminal stage.
//	N == 1: no steps; the root setter returns the terminal stage.
//	N >= 2: N-1 steps; the root setter returns the first step and the
//	        setter of the last mandatory field returns the terminal stage.
//
// An unset strategy is treated as StrategyOpen. Exclusions that match no field
// are ignored.
func Synthesize(typeName, pkg string, fields []*Field, strategy Strategy, cfg BuilderConfig) *Descriptor {
	strategy = strategy.Or(StrategyOpen)
	var (
		root     = Ref{Kind: RefRoot, Name: BuilderInterfaceName(typeName)}
		terminal = Ref{Kind: RefTerminal, Name: TerminalInterfaceName}
		product  = Ref{Kind: RefProduct, Name: typeName, Package: pkg}
	)
	c := computeChain(fields, strategy, cfg, terminal)
	d := &Descriptor{
		TypeName: typeName,
		Product:  product,
		Root:     root,
		Factory:  Factory{Name: FactoryMethodName(cfg), Returns: root},
		First:    c.first,
		Steps:    c.steps,
		Terminal: computeTerminal(fields, c.mandatory, cfg, terminal, product),
	}
	if c.first == nil {
		d.Factory.Returns = terminal
	}
	d.Interfaces = make([]Ref, 0, len(c.steps)+2)
	d.Interfaces = append(d.Interfaces, root)
	for _, s := range c.steps {
		d.Interfaces = append(d.Interfaces, s.Ref)
	}
	d.Interfaces = append(d.Interfaces, terminal)
	return d
}
