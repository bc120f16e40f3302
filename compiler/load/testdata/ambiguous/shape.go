package ambiguous

//stepgen:builder
type Shape struct {
	Sides int
	Name  string
}

//stepgen:constructor
func NewShape(sides int) *Shape { return &Shape{Sides: sides} }

//stepgen:constructor
func NewNamedShape(name string) *Shape { return &Shape{Name: name} }
