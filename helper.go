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

import "fmt"

// PhysicsHelper computes the diffusion and chemistry terms of each species
// for one altitude at a time, and keeps the column densities used by the
// chemistry up to date.
type PhysicsHelper struct {
	composition *AtmosphericMixture
	kinetics    Kinetics
	diffusion   Diffusion
	cache       *ColumnDensityCache

	omegas     []float64 // diffusion term
	omegaDots  []float64 // chemical term
	nSpecies   int
	haveResult bool
}

// NewPhysicsHelper creates a new PhysicsHelper for a mixture of nSpecies
// species. The mixture provides the first-guess column densities; opts
// configure the column density cache.
func NewPhysicsHelper(nSpecies int, compo *AtmosphericMixture, kin Kinetics, diff Diffusion, opts ...CacheOption) (*PhysicsHelper, error) {
	if nSpecies <= 0 {
		return nil, fmt.Errorf("planet: number of species must be positive, got %d", nSpecies)
	}
	if compo == nil {
		return nil, fmt.Errorf("planet: physics helper needs a composition")
	}
	if kin == nil {
		return nil, fmt.Errorf("planet: physics helper needs a kinetics model")
	}
	if diff == nil {
		return nil, fmt.Errorf("planet: physics helper needs a diffusion model")
	}
	if compo.Len() != nSpecies {
		return nil, fmt.Errorf("planet: composition has %d species, expected %d", compo.Len(), nSpecies)
	}
	return &PhysicsHelper{
		composition: compo,
		kinetics:    kin,
		diffusion:   diff,
		cache:       NewColumnDensityCache(compo, opts...),
		nSpecies:    nSpecies,
	}, nil
}

// Compute calculates the diffusion and chemical terms at altitude z from
// the species concentrations and their vertical gradients. The chemistry
// uses the column densities known before this sample is added to the
// cache. Errors from the diffusion and kinetics models are returned
// as-is, and leave the stored terms and the cache unchanged.
func (h *PhysicsHelper) Compute(conc, dconcdz []float64, z float64) error {
	if len(conc) != h.nSpecies || len(dconcdz) != h.nSpecies {
		return fmt.Errorf("planet: compute at z=%g: got %d concentrations and %d gradients for %d species",
			z, len(conc), len(dconcdz), h.nSpecies)
	}
	omegas, err := h.diffusion.Diffusion(conc, dconcdz, z)
	if err != nil {
		return err
	}
	omegaDots, err := h.kinetics.ChemicalRate(conc, h.cache.Get(z), z)
	if err != nil {
		return err
	}
	if len(omegas) != h.nSpecies || len(omegaDots) != h.nSpecies {
		return fmt.Errorf("planet: compute at z=%g: got %d diffusion and %d chemical terms for %d species",
			z, len(omegas), len(omegaDots), h.nSpecies)
	}
	h.omegas, h.omegaDots = omegas, omegaDots
	h.haveResult = true

	h.cache.Update(z, conc)
	return nil
}

// DiffusionTerm returns the diffusion term of species s from the last
// call to Compute. It panics if Compute has not succeeded yet.
func (h *PhysicsHelper) DiffusionTerm(s int) float64 {
	h.mustHaveResult()
	return h.omegas[s]
}

// ChemicalTerm returns the chemical term of species s from the last
// call to Compute. It panics if Compute has not succeeded yet.
func (h *PhysicsHelper) ChemicalTerm(s int) float64 {
	h.mustHaveResult()
	return h.omegaDots[s]
}

func (h *PhysicsHelper) mustHaveResult() {
	if !h.haveResult {
		panic("planet: no diffusion or chemical terms have been computed yet")
	}
}

// FirstGuess fills dst with barometric species densities at altitude z.
func (h *PhysicsHelper) FirstGuess(z float64, dst []float64) {
	h.composition.FirstGuessDensities(z, dst)
}

// LowerBoundaryDirichlet fills dst with the fixed densities at the bottom
// of the column.
func (h *PhysicsHelper) LowerBoundaryDirichlet(dst []float64) {
	h.composition.LowerBoundaryConcentrations(dst)
}

// UpperBoundaryNeumann fills dst with the fluxes through the top of the
// column given the densities there.
func (h *PhysicsHelper) UpperBoundaryNeumann(dst, densities []float64) {
	h.composition.UpperBoundaryFluxes(dst, densities)
}

// Composition returns the atmospheric mixture.
func (h *PhysicsHelper) Composition() *AtmosphericMixture { return h.composition }

// Cache returns the column density cache.
func (h *PhysicsHelper) Cache() *ColumnDensityCache { return h.cache }

// BeginSweep tells the column density cache that the solver is starting a
// pass over the column.
func (h *PhysicsHelper) BeginSweep() { h.cache.BeginSweep() }

// EndSweep tells the column density cache that the solver has finished a
// pass over the column.
func (h *PhysicsHelper) EndSweep() { h.cache.EndSweep() }

// NumSpecies returns the number of species.
func (h *PhysicsHelper) NumSpecies() int { return h.nSpecies }
