package curves

import "fmt"

// Model identifies the algebraic form of a curve. The numeric values are the
// ones carried by the DER curve descriptor.
type Model int

const (
	ShortWeierstrass Model = 2
	Edwards          Model = 3
	Montgomery       Model = 4
	TwistedEdwards   Model = 5
)

var modelNames = map[Model]string{
	ShortWeierstrass: "short-weierstrass",
	Edwards:          "edwards",
	Montgomery:       "montgomery",
	TwistedEdwards:   "twisted-edwards",
}

func (m Model) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Valid reports whether m is one of the four supported models.
func (m Model) Valid() bool {
	_, ok := modelNames[m]
	return ok
}

// ParseModel maps the registry spelling of a model back to its value.
func ParseModel(s string) (Model, error) {
	for m, name := range modelNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("curves: unknown model %q", s)
}
