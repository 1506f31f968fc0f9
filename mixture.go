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

package planet

import (
	"fmt"
	"math"
)

// Physical constants.
const (
	Boltzmann             = 1.380649e-23  // J/K
	Avogadro              = 6.02214076e23 // 1/mol
	GravitationalConstant = 6.67408e-11   // m³/kg/s²
	kmToM                 = 1000.         // m/km
	gToKg                 = 0.001         // kg/g
)

// Species holds the properties of a chemical species.
type Species struct {
	Name string

	MolarMass float64 // g/mol

	// MolarFraction is the molar fraction at the bottom of the column.
	MolarFraction float64

	// EscapeVelocity is the effective velocity [km/s] at which the species
	// leaves through the top of the column.
	EscapeVelocity float64

	// Binary diffusion coefficient with the major species,
	// D = DiffusionA * T^DiffusionS / n_tot in cm²/s, with n_tot in cm⁻³.
	DiffusionA, DiffusionS float64

	// ThermalDiffusion is the thermal diffusion factor α.
	ThermalDiffusion float64

	// CrossSection is the absorption cross section [cm²] used
	// to attenuate photolysis.
	CrossSection float64
}

// Body holds the bulk properties of a planet or moon.
type Body struct {
	Mass   float64 // kg
	Radius float64 // km
}

// Titan holds the bulk properties of Titan.
var Titan = Body{Mass: 1.3452e23, Radius: 2575.}

// AtmosphericMixture describes the composition of a planetary atmosphere
// and provides barometric first guesses of species densities and columns.
type AtmosphericMixture struct {
	species     []Species
	temperature *AtmosphericTemperature
	body        Body

	totalBottom float64 // cm⁻³
	zmin        float64 // km
	meanMass    float64 // g/mol
}

// NewAtmosphericMixture creates a new mixture from the given species,
// temperature profile, total number density [cm⁻³] at the bottom of the
// column and bottom altitude zmin [km].
func NewAtmosphericMixture(species []Species, t *AtmosphericTemperature, totalDensity, zmin float64, b Body) (*AtmosphericMixture, error) {
	if len(species) == 0 {
		return nil, fmt.Errorf("planet: mixture has no species")
	}
	if t == nil {
		return nil, fmt.Errorf("planet: mixture has no temperature profile")
	}
	if totalDensity <= 0 {
		return nil, fmt.Errorf("planet: total density must be positive, got %g", totalDensity)
	}
	if b.Mass <= 0 || b.Radius <= 0 {
		return nil, fmt.Errorf("planet: invalid body mass %g or radius %g", b.Mass, b.Radius)
	}
	m := &AtmosphericMixture{
		species:     species,
		temperature: t,
		body:        b,
		totalBottom: totalDensity,
		zmin:        zmin,
	}
	var sumFrac float64
	for _, s := range species {
		if s.MolarMass <= 0 {
			return nil, fmt.Errorf("planet: species %s has invalid molar mass %g", s.Name, s.MolarMass)
		}
		if s.MolarFraction < 0 {
			return nil, fmt.Errorf("planet: species %s has negative molar fraction %g", s.Name, s.MolarFraction)
		}
		m.meanMass += s.MolarMass * s.MolarFraction
		sumFrac += s.MolarFraction
	}
	if sumFrac == 0 {
		return nil, fmt.Errorf("planet: molar fractions sum to zero")
	}
	m.meanMass /= sumFrac
	return m, nil
}

// Species returns the species in the mixture.
func (m *AtmosphericMixture) Species() []Species { return m.species }

// Len returns the number of species in the mixture.
func (m *AtmosphericMixture) Len() int { return len(m.species) }

// Temperature returns the temperature profile of the mixture.
func (m *AtmosphericMixture) Temperature() *AtmosphericTemperature { return m.temperature }

// MeanMolarMass returns the fraction-weighted mean molar mass [g/mol] of
// the mixture.
func (m *AtmosphericMixture) MeanMolarMass() float64 { return m.meanMass }

// TotalDensityBottom returns the total number density at the bottom of
// the column [cm⁻³].
func (m *AtmosphericMixture) TotalDensityBottom() float64 { return m.totalBottom }

// Zmin returns the altitude of the bottom of the column.
func (m *AtmosphericMixture) Zmin() float64 { return m.zmin }

// Gravity returns the gravitational acceleration [m/s²] at altitude z.
func (m *AtmosphericMixture) Gravity(z float64) float64 {
	r := (m.body.Radius + z) * kmToM
	return GravitationalConstant * m.body.Mass / (r * r)
}

// ScaleHeight returns the scale height [km] at altitude z of a gas
// with the given molar mass [g/mol].
func (m *AtmosphericMixture) ScaleHeight(molarMass, z float64) float64 {
	mass := molarMass * gToKg / Avogadro
	return Boltzmann * m.temperature.NeutralTemperature(z) / (mass * m.Gravity(z)) / kmToM
}

// FirstGuessDensities fills dst with barometric species densities at
// altitude z, assuming the atmosphere is well mixed.
func (m *AtmosphericMixture) FirstGuessDensities(z float64, dst []float64) {
	h := m.ScaleHeight(m.meanMass, z)
	ntot := m.totalBottom * math.Exp(-(z-m.zmin)/h)
	for i, s := range m.species {
		dst[i] = ntot * s.MolarFraction
	}
}

// ColumnEstimate returns the barometric column density of each species
// above altitude z, n(z)·H(z).
func (m *AtmosphericMixture) ColumnEstimate(z float64) []float64 {
	o := make([]float64, len(m.species))
	m.FirstGuessDensities(z, o)
	h := m.ScaleHeight(m.meanMass, z)
	for i := range o {
		o[i] *= h
	}
	return o
}

// LowerBoundaryConcentrations fills dst with the fixed species densities
// at the bottom of the column.
func (m *AtmosphericMixture) LowerBoundaryConcentrations(dst []float64) {
	for i, s := range m.species {
		dst[i] = m.totalBottom * s.MolarFraction
	}
}

// UpperBoundaryFluxes fills dst with the upward flux of each species
// through the top of the column given the densities there.
func (m *AtmosphericMixture) UpperBoundaryFluxes(dst, densities []float64) {
	for i, s := range m.species {
		dst[i] = s.EscapeVelocity * densities[i]
	}
}
