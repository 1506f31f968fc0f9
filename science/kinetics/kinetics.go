/*
Copyright © 2018 the Planet authors.
This file is part of Planet.

Planet is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Planet is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Planet.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package kinetics provides a chemical mechanism made up of thermal
// reactions, whose rate constants are given as expressions of
// temperature and altitude, and photolysis reactions, whose rates are
// attenuated by the column of absorbing species above each altitude.
package kinetics

import (
	"fmt"
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/planet"
	"gonum.org/v1/gonum/floats"
)

// kmToCm converts column densities from cm⁻³·km to cm⁻².
const kmToCm = 1.e5

// Chemistry holds the contents of a chemistry file.
type Chemistry struct {
	Species  []planet.Species
	Reaction []ReactionConfig
}

// ReactionConfig describes a reaction in a chemistry file.
type ReactionConfig struct {
	// Reactants and Products are species names. A species that
	// takes part more than once is listed more than once.
	Reactants, Products []string

	// The rate constant in cm³ⁿ⁻³/s of a reaction with n reactants is
	// A times the value of Rate. Rate is an expression that may use the
	// variables T (temperature, the electronic temperature for ionic
	// reactions), Tn, Ti, Te (neutral, ionic and electronic temperatures
	// [K]), z (altitude [km]) and M (total number density [cm⁻³]), and
	// the function exp.
	// An empty Rate is taken to be 1.
	A    float64
	Rate string

	// Photolysis reactions have a single reactant and use J0 as the
	// unattenuated photolysis rate [1/s] instead of Rate.
	Photolysis bool
	J0         float64

	// Ionic reactions are only included when ions are enabled.
	Ionic bool
}

// ReadChemistry reads a chemistry file in TOML format from r.
func ReadChemistry(r io.Reader) (*Chemistry, error) {
	c := new(Chemistry)
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("kinetics: reading chemistry file: %v", err)
	}
	if len(c.Species) == 0 {
		return nil, fmt.Errorf("kinetics: chemistry file has no species")
	}
	return c, nil
}

// SpeciesNames returns the names of the species in c.
func (c *Chemistry) SpeciesNames() []string {
	o := make([]string, len(c.Species))
	for i, s := range c.Species {
		o[i] = s.Name
	}
	return o
}

var rateFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("kinetics: got %d arguments for function 'exp', but needs 1", len(arg))
		}
		v, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("kinetics: invalid argument %v for function 'exp'", arg[0])
		}
		return math.Exp(v), nil
	},
}

type reaction struct {
	name                string
	reactants, products []int
	a                   float64
	rate                *govaluate.EvaluableExpression
	photolysis          bool
	j0                  float64
	ionic               bool
}

// Mechanism is a chemical mechanism. It implements planet.Kinetics.
type Mechanism struct {
	species     []planet.Species
	reactions   []reaction
	temperature *planet.AtmosphericTemperature

	// mu is the cosine of the solar zenith angle.
	mu float64
}

// NewMechanism creates a mechanism from the species and reactions in c.
// mu is the cosine of the solar zenith angle. Ionic reactions are
// skipped unless ions is true.
func NewMechanism(c *Chemistry, t *planet.AtmosphericTemperature, mu float64, ions bool) (*Mechanism, error) {
	if t == nil {
		return nil, fmt.Errorf("kinetics: no temperature profile")
	}
	if mu <= 0 || mu > 1 {
		return nil, fmt.Errorf("kinetics: cosine of solar zenith angle must be in (0, 1], got %g", mu)
	}
	index := make(map[string]int)
	for i, s := range c.Species {
		if _, ok := index[s.Name]; ok {
			return nil, fmt.Errorf("kinetics: duplicate species %s", s.Name)
		}
		index[s.Name] = i
	}
	indices := func(names []string) ([]int, error) {
		o := make([]int, len(names))
		for i, n := range names {
			j, ok := index[n]
			if !ok {
				return nil, fmt.Errorf("kinetics: unknown species %s", n)
			}
			o[i] = j
		}
		return o, nil
	}

	m := &Mechanism{species: c.Species, temperature: t, mu: mu}
	for i, rc := range c.Reaction {
		if rc.Ionic && !ions {
			continue
		}
		r := reaction{
			name:       fmt.Sprintf("%v -> %v", rc.Reactants, rc.Products),
			photolysis: rc.Photolysis,
			j0:         rc.J0,
			ionic:      rc.Ionic,
		}
		var err error
		if r.reactants, err = indices(rc.Reactants); err != nil {
			return nil, fmt.Errorf("kinetics: reaction %d: %v", i, err)
		}
		if r.products, err = indices(rc.Products); err != nil {
			return nil, fmt.Errorf("kinetics: reaction %d: %v", i, err)
		}
		if rc.Photolysis {
			if len(r.reactants) != 1 {
				return nil, fmt.Errorf("kinetics: photolysis reaction %d (%s) has %d reactants; it needs 1", i, r.name, len(r.reactants))
			}
			if rc.J0 < 0 {
				return nil, fmt.Errorf("kinetics: photolysis reaction %d (%s) has negative J0", i, r.name)
			}
		} else {
			if len(r.reactants) == 0 {
				return nil, fmt.Errorf("kinetics: reaction %d has no reactants", i)
			}
			r.a = rc.A
			if rc.Rate != "" {
				r.rate, err = govaluate.NewEvaluableExpressionWithFunctions(rc.Rate, rateFunctions)
				if err != nil {
					return nil, fmt.Errorf("kinetics: reaction %d (%s) rate: %v", i, r.name, err)
				}
			}
		}
		m.reactions = append(m.reactions, r)
	}
	return m, nil
}

// Len returns the number of reactions in the mechanism.
func (m *Mechanism) Len() int { return len(m.reactions) }

// RateConstant returns the rate constant of thermal reaction r at
// altitude z where the total number density is M [cm⁻³]. For photolysis
// reactions it returns the unattenuated rate.
func (m *Mechanism) RateConstant(r int, z, M float64) (float64, error) {
	rx := m.reactions[r]
	if rx.photolysis {
		return rx.j0, nil
	}
	if rx.rate == nil {
		return rx.a, nil
	}
	tn := m.temperature.NeutralTemperature(z)
	te := m.temperature.ElectronicTemperature(z)
	T := tn
	if rx.ionic {
		T = te
	}
	v, err := rx.rate.Evaluate(map[string]interface{}{
		"T":  T,
		"Tn": tn,
		"Ti": m.temperature.IonicTemperature(z),
		"Te": te,
		"z":  z,
		"M":  M,
	})
	if err != nil {
		return 0, fmt.Errorf("kinetics: evaluating rate of %s at z=%g: %v", rx.name, z, err)
	}
	k, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("kinetics: rate of %s evaluates to %v, which is not a number", rx.name, v)
	}
	return rx.a * k, nil
}

// Attenuation returns the fraction of the unattenuated photolysis rate
// available below the given column densities [cm⁻³·km].
func (m *Mechanism) Attenuation(column []float64) float64 {
	var tau float64
	for i, s := range m.species {
		tau += s.CrossSection * column[i] * kmToCm
	}
	return math.Exp(-tau / m.mu)
}

// ChemicalRate implements planet.Kinetics. It returns the net production
// rate [cm⁻³/s] of each species.
func (m *Mechanism) ChemicalRate(conc, column []float64, z float64) ([]float64, error) {
	if len(conc) != len(m.species) || len(column) != len(m.species) {
		return nil, fmt.Errorf("kinetics: got %d concentrations and %d columns for %d species",
			len(conc), len(column), len(m.species))
	}
	att := m.Attenuation(column)
	M := floats.Sum(conc)
	o := make([]float64, len(m.species))
	for r, rx := range m.reactions {
		k, err := m.RateConstant(r, z, M)
		if err != nil {
			return nil, err
		}
		if rx.photolysis {
			k *= att
		}
		rate := k
		for _, i := range rx.reactants {
			rate *= conc[i]
		}
		for _, i := range rx.reactants {
			o[i] -= rate
		}
		for _, i := range rx.products {
			o[i] += rate
		}
	}
	return o, nil
}
