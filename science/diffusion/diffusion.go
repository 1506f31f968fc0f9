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

// Package diffusion provides vertical transport models for
// planetary atmospheres: molecular diffusion, eddy diffusion, and
// the combination of the two. Fluxes are positive upward, in
// cm⁻³·km/s.
package diffusion

import (
	"fmt"
	"math"

	"github.com/spatialmodel/planet"
	"gonum.org/v1/gonum/floats"
)

// cm2ToKm2 converts diffusion coefficients from cm²/s to km²/s.
const cm2ToKm2 = 1.e-10

// New returns the diffusion model of the given kind: "molecular", "eddy",
// or "combined". k0 is the eddy diffusion coefficient [cm²/s] at the
// bottom of the column; it is ignored by the molecular model.
func New(kind string, mix *planet.AtmosphericMixture, k0 float64) (planet.Diffusion, error) {
	if mix == nil {
		return nil, fmt.Errorf("diffusion: no atmospheric mixture")
	}
	switch kind {
	case "molecular":
		return NewMolecular(mix), nil
	case "eddy":
		return NewEddy(mix, k0), nil
	case "combined":
		return Combined{NewMolecular(mix), NewEddy(mix, k0)}, nil
	default:
		return nil, fmt.Errorf("diffusion: invalid model %q; valid options are 'molecular', 'eddy', and 'combined'", kind)
	}
}

func totalDensity(conc []float64, z float64) (float64, error) {
	ntot := floats.Sum(conc)
	if ntot <= 0 {
		return 0, fmt.Errorf("diffusion: total density at z=%g is %g; it must be positive", z, ntot)
	}
	return ntot, nil
}

// Molecular is a molecular diffusion model where each species diffuses
// through the major species with its own scale height.
type Molecular struct {
	mix *planet.AtmosphericMixture
}

// NewMolecular returns a molecular diffusion model for the species in mix.
func NewMolecular(mix *planet.AtmosphericMixture) *Molecular {
	return &Molecular{mix: mix}
}

// Coefficient returns the binary diffusion coefficient [km²/s] of species
// s at temperature T [K] and total density ntot [cm⁻³].
func (m *Molecular) Coefficient(s int, T, ntot float64) float64 {
	sp := m.mix.Species()[s]
	return sp.DiffusionA * math.Pow(T, sp.DiffusionS) / ntot * cm2ToKm2
}

// Diffusion implements planet.Diffusion.
func (m *Molecular) Diffusion(conc, dconcdz []float64, z float64) ([]float64, error) {
	ntot, err := totalDensity(conc, z)
	if err != nil {
		return nil, err
	}
	t := m.mix.Temperature()
	T := t.NeutralTemperature(z)
	dTdz := t.DNeutralTemperatureDz(z)
	o := make([]float64, len(conc))
	for s, sp := range m.mix.Species() {
		h := m.mix.ScaleHeight(sp.MolarMass, z)
		o[s] = -m.Coefficient(s, T, ntot) *
			(dconcdz[s] + conc[s]/h + (1+sp.ThermalDiffusion)*conc[s]/T*dTdz)
	}
	return o, nil
}

// Eddy is an eddy diffusion model where all species mix with the scale
// height of the mean atmosphere. The eddy coefficient varies with the
// inverse square root of the total density.
type Eddy struct {
	mix *planet.AtmosphericMixture

	// K0 is the eddy diffusion coefficient [cm²/s] at the bottom of
	// the column.
	K0 float64
}

// NewEddy returns an eddy diffusion model for the species in mix.
func NewEddy(mix *planet.AtmosphericMixture, k0 float64) *Eddy {
	return &Eddy{mix: mix, K0: k0}
}

// Coefficient returns the eddy diffusion coefficient [km²/s] at total
// density ntot [cm⁻³].
func (e *Eddy) Coefficient(ntot float64) float64 {
	return e.K0 * math.Sqrt(e.mix.TotalDensityBottom()/ntot) * cm2ToKm2
}

// Diffusion implements planet.Diffusion.
func (e *Eddy) Diffusion(conc, dconcdz []float64, z float64) ([]float64, error) {
	ntot, err := totalDensity(conc, z)
	if err != nil {
		return nil, err
	}
	t := e.mix.Temperature()
	T := t.NeutralTemperature(z)
	dTdz := t.DNeutralTemperatureDz(z)
	h := e.mix.ScaleHeight(e.mix.MeanMolarMass(), z)
	k := e.Coefficient(ntot)
	o := make([]float64, len(conc))
	for s := range o {
		o[s] = -k * (dconcdz[s] + conc[s]/h + conc[s]/T*dTdz)
	}
	return o, nil
}

// Combined is the sum of molecular and eddy diffusion.
type Combined struct {
	*Molecular
	*Eddy
}

// Diffusion implements planet.Diffusion.
func (c Combined) Diffusion(conc, dconcdz []float64, z float64) ([]float64, error) {
	o, err := c.Molecular.Diffusion(conc, dconcdz, z)
	if err != nil {
		return nil, err
	}
	e, err := c.Eddy.Diffusion(conc, dconcdz, z)
	if err != nil {
		return nil, err
	}
	floats.Add(o, e)
	return o, nil
}
