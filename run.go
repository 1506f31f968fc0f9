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
	"time"

	"github.com/sirupsen/logrus"
)

// DomainManipulator is a function that operates on the model column.
type DomainManipulator func(c *Column) error

// Column holds the state of a one-dimensional atmospheric column and the
// functions that are run on it.
type Column struct {
	Helper *PhysicsHelper

	// Altitudes of the model levels [km], from the bottom up.
	Altitudes []float64

	// Conc holds the species densities at each level [cm⁻³].
	Conc [][]float64

	Dt float64 // pseudo time step [s]

	// Done is set to true when the simulation is finished.
	Done bool

	InitFuncs    []DomainManipulator
	RunFuncs     []DomainManipulator
	CleanupFuncs []DomainManipulator

	iteration int

	// maxChange is the largest relative density change during the
	// last sweep.
	maxChange float64
}

// Init initializes the column by running InitFuncs.
func (c *Column) Init() error {
	for _, f := range c.InitFuncs {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

// Run runs RunFuncs until Done is true.
func (c *Column) Run() error {
	for !c.Done {
		for _, f := range c.RunFuncs {
			if err := f(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup runs CleanupFuncs.
func (c *Column) Cleanup() error {
	for _, f := range c.CleanupFuncs {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

// Iteration returns the number of sweeps that have been run.
func (c *Column) Iteration() int { return c.iteration }

// MaxChange returns the largest relative change in any density during the
// last sweep.
func (c *Column) MaxChange() float64 { return c.maxChange }

// UniformGrid returns a function that sets up n levels evenly spaced
// between zmin and zmax.
func UniformGrid(zmin, zmax float64, n int) DomainManipulator {
	return func(c *Column) error {
		if n < 2 {
			return fmt.Errorf("planet: the column needs at least 2 levels, got %d", n)
		}
		if zmax <= zmin {
			return fmt.Errorf("planet: zmax (%g) must be greater than zmin (%g)", zmax, zmin)
		}
		c.Altitudes = make([]float64, n)
		c.Conc = make([][]float64, n)
		dz := (zmax - zmin) / float64(n-1)
		for i := range c.Altitudes {
			c.Altitudes[i] = zmin + dz*float64(i)
			c.Conc[i] = make([]float64, c.Helper.NumSpecies())
		}
		c.Altitudes[n-1] = zmax
		return nil
	}
}

// FirstGuessInit returns a function that fills the column with the
// barometric first guess, with the bottom level held at the lower
// boundary condition.
func FirstGuessInit() DomainManipulator {
	return func(c *Column) error {
		if len(c.Conc) == 0 {
			return fmt.Errorf("planet: the column grid has not been set up")
		}
		for i, z := range c.Altitudes {
			c.Helper.FirstGuess(z, c.Conc[i])
		}
		c.Helper.LowerBoundaryDirichlet(c.Conc[0])
		return nil
	}
}

// Sweep returns a function that visits every level once, computes the
// diffusion and chemistry terms there, and advances the densities by one
// pseudo time step. Successive sweeps alternate between top-down and
// bottom-up order. If explicit is true the sweep boundaries are signaled
// to the column density cache, and the sweep is closed even if it fails;
// otherwise the cache detects them itself.
func Sweep(explicit bool) DomainManipulator {
	return func(c *Column) error {
		n := len(c.Altitudes)
		if n < 2 {
			return fmt.Errorf("planet: the column needs at least 2 levels, got %d", n)
		}
		ns := c.Helper.NumSpecies()
		flux := make([][]float64, n)
		chem := make([][]float64, n)
		grad := make([]float64, ns)

		if explicit {
			c.Helper.BeginSweep()
			defer c.Helper.EndSweep()
		}
		topDown := c.iteration%2 == 0
		for k := 0; k < n; k++ {
			i := k
			if topDown {
				i = n - 1 - k
			}
			c.gradient(i, grad)
			if err := c.Helper.Compute(c.Conc[i], grad, c.Altitudes[i]); err != nil {
				return fmt.Errorf("planet: sweep at z=%g: %v", c.Altitudes[i], err)
			}
			flux[i] = make([]float64, ns)
			chem[i] = make([]float64, ns)
			for s := 0; s < ns; s++ {
				flux[i][s] = c.Helper.DiffusionTerm(s)
				chem[i][s] = c.Helper.ChemicalTerm(s)
			}
		}
		top := make([]float64, ns)
		c.Helper.UpperBoundaryNeumann(top, c.Conc[n-1])

		c.maxChange = 0
		next := make([][]float64, n)
		next[0] = c.Conc[0] // Dirichlet
		for i := 1; i < n; i++ {
			next[i] = make([]float64, ns)
			for s := 0; s < ns; s++ {
				var div float64
				if i == n-1 {
					div = (top[s] - flux[i-1][s]) / (c.Altitudes[i] - c.Altitudes[i-1])
				} else {
					div = (flux[i+1][s] - flux[i-1][s]) / (c.Altitudes[i+1] - c.Altitudes[i-1])
				}
				v := math.Max(0, c.Conc[i][s]+c.Dt*(chem[i][s]-div))
				if c.Conc[i][s] > 0 {
					c.maxChange = math.Max(c.maxChange, math.Abs(v-c.Conc[i][s])/c.Conc[i][s])
				} else if v > 0 {
					c.maxChange = math.Inf(1)
				}
				next[i][s] = v
			}
		}
		c.Conc = next
		c.iteration++
		return nil
	}
}

// gradient fills dst with the vertical density gradient at level i,
// using centered differences inside the column and one-sided differences
// at its ends.
func (c *Column) gradient(i int, dst []float64) {
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(c.Altitudes)-1 {
		hi = len(c.Altitudes) - 1
	}
	dz := c.Altitudes[hi] - c.Altitudes[lo]
	for s := range dst {
		dst[s] = (c.Conc[hi][s] - c.Conc[lo][s]) / dz
	}
}

// SteadyStateConvergenceCheck returns a function that sets the Done flag
// when the simulation is finished. If numIterations > 0, the simulation
// is finished after that number of sweeps. Otherwise, it is finished when
// no density changes by more than tolerance (relative) during a sweep.
func SteadyStateConvergenceCheck(numIterations int, tolerance float64) DomainManipulator {
	return func(c *Column) error {
		if numIterations > 0 {
			if c.iteration >= numIterations {
				c.Done = true
			}
			return nil
		}
		if c.iteration > 1 && c.maxChange <= tolerance {
			c.Done = true
		}
		return nil
	}
}

// Log returns a function that writes simulation status messages to l.
func Log(l logrus.FieldLogger) DomainManipulator {
	startTime := time.Now()
	sweepTime := time.Now()
	return func(c *Column) error {
		l.WithFields(logrus.Fields{
			"iteration":  c.iteration,
			"max_change": c.maxChange,
			"walltime":   time.Since(startTime).String(),
			"Δwalltime":  time.Since(sweepTime).String(),
			"columns":    c.Helper.Cache().Len(),
		}).Debug("sweep finished")
		sweepTime = time.Now()
		return nil
	}
}

// Results returns the altitude of each level, the species densities
// and the column densities above it.
func (c *Column) Results() (altitudes []float64, conc, columns [][]float64) {
	cache := c.Helper.Cache()
	conc = make([][]float64, len(c.Conc))
	columns = make([][]float64, len(c.Conc))
	for i, z := range c.Altitudes {
		conc[i] = make([]float64, len(c.Conc[i]))
		copy(conc[i], c.Conc[i])
		columns[i] = cache.Get(z)
	}
	return c.Altitudes, conc, columns
}
