package curves

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecc/pkg/ecc"
	"github.com/smallyu/go-ecc/pkg/ecc/logging"
)

//go:embed curves.yaml
var builtinRegistry []byte

type registryFile struct {
	Curves []curveEntry `yaml:"curves"`
}

type curveEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Model   string   `yaml:"model"`
	P       string   `yaml:"p"`
	Coeff0  string   `yaml:"coeff0"`
	Coeff1  string   `yaml:"coeff1"`
	N       string   `yaml:"n"`
	H       string   `yaml:"h"`
	Gx      string   `yaml:"gx"`
	Gy      string   `yaml:"gy"`
	Bits    int      `yaml:"bits"`
}

// Registry maps curve names and aliases to curves. Lookups ignore case.
type Registry struct {
	names  []string
	byName map[string]*Curve
}

// LoadRegistry decodes a YAML curve list. Every entry is validated the same
// way the explicit constructors validate their input.
func LoadRegistry(r io.Reader, log logging.Logger) (*Registry, error) {
	if log == nil {
		log = logging.Discard()
	}
	var file registryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("curves: decode registry: %w", err)
	}

	reg := &Registry{byName: make(map[string]*Curve)}
	for i, e := range file.Curves {
		c, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("curves: registry entry %d (%s): %w", i, e.Name, err)
		}
		for _, key := range append([]string{e.Name}, e.Aliases...) {
			k := strings.ToLower(key)
			if _, dup := reg.byName[k]; dup {
				return nil, fmt.Errorf("curves: duplicate registry name %q", key)
			}
			reg.byName[k] = c
		}
		reg.names = append(reg.names, e.Name)
		log.Debug(context.Background(), "curve registered",
			"name", e.Name, "model", c.model.String(), "bits", c.bits, "aliases", e.Aliases)
	}
	log.Debug(context.Background(), "curve registry loaded", "curves", len(reg.names))
	return reg, nil
}

func (e curveEntry) build() (*Curve, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	model, err := ParseModel(e.Model)
	if err != nil {
		return nil, err
	}

	var vals [7]*big.Int
	for i, s := range []string{e.P, e.Coeff0, e.Coeff1, e.N, e.H, e.Gx, e.Gy} {
		v, err := parseInt(s)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return newCurve(e.Name, model, vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], e.Bits)
}

// parseInt accepts 0x-prefixed hex or decimal.
func parseInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = rest, 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("bad integer %q", s)
	}
	return v, nil
}

// ByName returns the curve registered under name or one of its aliases.
func (r *Registry) ByName(name string) (*Curve, error) {
	if c, ok := r.byName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, ecc.NewError("curves.ByName", name, ecc.ErrUnknownCurve)
}

// Names lists canonical names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Merge returns a registry holding the curves of r and o. Entries of o take
// precedence on a name clash.
func (r *Registry) Merge(o *Registry) *Registry {
	m := &Registry{byName: make(map[string]*Curve, len(r.byName)+len(o.byName))}
	for k, c := range r.byName {
		m.byName[k] = c
	}
	seen := make(map[string]bool)
	for _, n := range r.names {
		seen[strings.ToLower(n)] = true
		m.names = append(m.names, n)
	}
	for k, c := range o.byName {
		m.byName[k] = c
	}
	for _, n := range o.names {
		if !seen[strings.ToLower(n)] {
			m.names = append(m.names, n)
		}
	}
	return m
}

var loadDefault = sync.OnceValue(func() *Registry {
	reg, err := LoadRegistry(bytes.NewReader(builtinRegistry), nil)
	if err != nil {
		panic(err)
	}
	return reg
})

// Default returns the built-in registry.
func Default() *Registry {
	return loadDefault()
}

// ByName looks name up in the built-in registry.
func ByName(name string) (*Curve, error) {
	return Default().ByName(name)
}

// Names lists the built-in curves.
func Names() []string {
	return Default().Names()
}
