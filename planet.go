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

// Package planet is a one-dimensional photochemical model for planetary
// atmospheres. It computes, at a given altitude, the diffusive transport
// term and the chemical production/loss term of each species for an
// external iterative solver, and keeps the column densities needed for
// photolysis attenuation up to date as the solver sweeps the column.
//
// Altitudes are in km, number densities in cm⁻³ and column densities
// in cm⁻³·km.
package planet

// Version gives the version number.
const Version = "0.3.0"

// Diffusion is an interface for vertical transport models.
type Diffusion interface {
	// Diffusion returns the diffusive flux of each species at altitude z,
	// given the species concentrations and their vertical gradients.
	Diffusion(conc, dconcdz []float64, z float64) ([]float64, error)
}

// Kinetics is an interface for chemical mechanisms.
type Kinetics interface {
	// ChemicalRate returns the net chemical production rate of each
	// species at altitude z. column holds the column density of each
	// species above z and is used to attenuate photolysis.
	ChemicalRate(conc, column []float64, z float64) ([]float64, error)
}

// ColumnEstimator provides an analytic estimate of the column density of
// each species above an altitude. It must not depend on the state of a
// ColumnDensityCache.
type ColumnEstimator interface {
	ColumnEstimate(z float64) []float64
}
