package valid

import (
	"net/url"
	"time"

	yaml "gopkg.in/yaml.v3"
)

//stepgen:builder strategy=STRICT setter_prefix=with exclude=cache
type Car struct {
	Make      string `step:"mandatory"`
	Model     string
	Year      int
	Built     time.Time
	Brochure  *url.URL
	Options   map[string][]string
	Notes     yaml.Node `step:"-"`
	cache     map[string]any
	Wheels    [4]int
	OnService func(int) error
	_         struct{}
}

// NewCar creates a car with a model.
func NewCar(model string) *Car {
	return &Car{Model: model}
}

// NewCarWithYear creates a car with a model and year.
//
//stepgen:constructor
func NewCarWithYear(model string, year int, color string) Car {
	return Car{Model: model, Year: year}
}

// Engine is selected by name.
type Engine struct {
	Displacement float64
	Cylinders, Valves int
}

type notSelected struct {
	a int
}
