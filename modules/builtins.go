package modules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/brettbedarf/foldertree/config"
)

// SampleModuleName is the builtin module registered by [RegisterBuiltins]
const SampleModuleName = "sample"

// DefaultBuiltins holds the builtin modules available to registries created
// with [NewRegistryFromConfig]
var DefaultBuiltins = NewBuiltinLoader()

// Register adds a builtin module factory to [DefaultBuiltins]
func Register(name string, factory func() Module) bool {
	return DefaultBuiltins.Register(name, factory)
}

// RegisterBuiltins adds the named builtin modules to [DefaultBuiltins], or
// every builtin module when no names are given. Unknown names are ignored.
func RegisterBuiltins(names ...string) {
	if len(names) == 0 {
		names = []string{SampleModuleName}
	}

	for _, name := range names {
		switch name {
		case SampleModuleName:
			Register(SampleModuleName, SampleModule)
		}
	}
}

// Calculator is a sample plugin type carrying the default marker capability
type Calculator struct {
	Precision int
}

func (c *Calculator) Add(a, b int) int { return a + b }

func (c *Calculator) Multiply(a, b float64) float64 { return c.round(a * b) }

func (c *Calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return c.round(a / b), nil
}

func (c *Calculator) GetPrecision() int { return c.Precision }

func (c *Calculator) round(v float64) float64 {
	p := math.Pow10(c.Precision)
	return math.Round(v*p) / p
}

// Greeter is a sample plugin type whose operations declare defaults
type Greeter struct{}

func (g *Greeter) Greet(name string) string { return "Hello, " + name + "!" }

func (g *Greeter) Repeat(text string, times int, sep string) string {
	if times < 0 {
		times = 0
	}
	return strings.Repeat(text+sep, times)
}

// Inspector reports on the arguments it receives; it has no marker capability
type Inspector struct{}

func (i *Inspector) Describe(v any) string { return fmt.Sprintf("%T(%v)", v, v) }

// SampleModule returns a module with a mix of qualifying and non-qualifying
// types, used as the builtin "sample" module and by the sample plugin
func SampleModule() Module {
	marker := config.DefaultMarkerCapability

	precision := MustMethod("GetPrecision", (*Calculator).GetPrecision)
	precision.Accessor = true

	return &staticModule{
		name: SampleModuleName,
		types: []TypeSpec{
			{
				Name:         "Calculator",
				Capabilities: []string{marker},
				New: func() (any, error) {
					return &Calculator{Precision: 2}, nil
				},
				Methods: []MethodSpec{
					MustMethod("Add", (*Calculator).Add, Arg("a"), Arg("b")),
					MustMethod("Multiply", (*Calculator).Multiply, Arg("a"), ArgDefault("b", 1.0)),
					MustMethod("Divide", (*Calculator).Divide, Arg("a"), Arg("b")),
					precision,
					{
						Name:   "Version",
						Static: true,
						Call:   func(any, []any) (any, error) { return "1.0", nil },
					},
				},
			},
			{
				Name:         "Greeter",
				Capabilities: []string{marker, "IGreeter"},
				New:          Ctor[Greeter](),
				Methods: []MethodSpec{
					MustMethod("Greet", (*Greeter).Greet, ArgDefault("name", "World")),
					MustMethod("Repeat", (*Greeter).Repeat, Arg("text"), ArgDefault("times", 2), ArgDefault("sep", " ")),
				},
			},
			{
				Name:    "Inspector",
				New:     Ctor[Inspector](),
				Methods: []MethodSpec{MustMethod("Describe", (*Inspector).Describe, Arg("v"))},
			},
		},
	}
}

// NewStaticModule returns a [Module] serving a fixed list of types
func NewStaticModule(name string, types ...TypeSpec) Module {
	return &staticModule{name: name, types: types}
}

type staticModule struct {
	name  string
	types []TypeSpec
}

func (m *staticModule) Name() string { return m.name }

func (m *staticModule) Types() []TypeSpec { return m.types }
