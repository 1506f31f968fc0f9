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
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testColumn(t *testing.T, escape float64, diff Diffusion, kin Kinetics, numIterations int, explicit bool) *Column {
	species := []Species{
		{Name: "A", MolarMass: 28, MolarFraction: 0.9},
		{Name: "B", MolarMass: 2, MolarFraction: 0.1, EscapeVelocity: escape},
	}
	m, err := NewAtmosphericMixture(species, constantTemperature(t, 150), 1.e10, 600, Titan)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewPhysicsHelper(2, m, kin, diff)
	if err != nil {
		t.Fatal(err)
	}
	return &Column{
		Helper: h,
		Dt:     1,
		InitFuncs: []DomainManipulator{
			UniformGrid(600, 1000, 5),
			FirstGuessInit(),
		},
		RunFuncs: []DomainManipulator{
			Sweep(explicit),
			SteadyStateConvergenceCheck(numIterations, 1.e-12),
		},
	}
}

func zeroStubs() (*stubDiffusion, *stubKinetics) {
	return &stubDiffusion{out: []float64{0, 0}}, &stubKinetics{out: []float64{0, 0}}
}

func TestColumn_steady(t *testing.T) {
	for _, explicit := range []bool{true, false} {
		t.Run(fmt.Sprintf("explicit=%v", explicit), func(t *testing.T) {
			diff, kin := zeroStubs()
			c := testColumn(t, 0, diff, kin, 3, explicit)
			if err := c.Init(); err != nil {
				t.Fatal(err)
			}
			want := make([][]float64, len(c.Conc))
			for i := range c.Conc {
				want[i] = append([]float64{}, c.Conc[i]...)
			}
			if err := c.Run(); err != nil {
				t.Fatal(err)
			}
			if c.Iteration() != 3 {
				t.Errorf("iterations: have %d, want 3", c.Iteration())
			}
			if c.MaxChange() != 0 {
				t.Errorf("max change: have %g, want 0", c.MaxChange())
			}
			for i := range want {
				for s := range want[i] {
					if c.Conc[i][s] != want[i][s] {
						t.Errorf("level %d species %d: have %g, want %g", i, s, c.Conc[i][s], want[i][s])
					}
				}
			}
			if c.Helper.Cache().Len() != 5 {
				t.Errorf("cache altitudes: have %d, want 5", c.Helper.Cache().Len())
			}
		})
	}
}

func TestColumn_explicitSweepsClearCache(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 2, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if p := c.Helper.Cache().Pending(); p != 0 {
		t.Errorf("pending samples: have %d, want 0", p)
	}
}

func TestColumn_convergence(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 0, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !c.Done || c.Iteration() != 2 {
		t.Errorf("done %v after %d iterations", c.Done, c.Iteration())
	}
}

func TestColumn_escape(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0.1, diff, kin, 1, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	top := c.Conc[4][1]
	bottom := append([]float64{}, c.Conc[0]...)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	// One step of the top flux divergence, 0.1·n/100 km.
	want := top * (1 - 0.1/100)
	if different(c.Conc[4][1], want, testTolerance) {
		t.Errorf("top: have %g, want %g", c.Conc[4][1], want)
	}
	if c.Conc[0][0] != bottom[0] || c.Conc[0][1] != bottom[1] {
		t.Errorf("bottom changed: have %v, want %v", c.Conc[0], bottom)
	}
	if different(c.MaxChange(), 0.001, 1.e-6) {
		t.Errorf("max change: have %g, want 0.001", c.MaxChange())
	}
}

func TestColumn_chemistry(t *testing.T) {
	diff := &stubDiffusion{out: []float64{0, 0}}
	kin := &stubKinetics{out: []float64{-1, 1}}
	c := testColumn(t, 0, diff, kin, 1, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	before := append([]float64{}, c.Conc[2]...)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if different(c.Conc[2][0], before[0]-1, testTolerance) || different(c.Conc[2][1], before[1]+1, testTolerance) {
		t.Errorf("have %v, want %v + [-1 1]", c.Conc[2], before)
	}
}

func TestColumn_nonNegative(t *testing.T) {
	diff := &stubDiffusion{out: []float64{0, 0}}
	kin := &stubKinetics{out: []float64{-1.e20, 0}}
	c := testColumn(t, 0, diff, kin, 1, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(c.Conc); i++ {
		if c.Conc[i][0] != 0 {
			t.Errorf("level %d: have %g, want 0", i, c.Conc[i][0])
		}
	}
}

func TestColumn_error(t *testing.T) {
	diff, kin := zeroStubs()
	diff.err = fmt.Errorf("diffusion failed")
	c := testColumn(t, 0, diff, kin, 1, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	err := c.Run()
	if err == nil || !strings.Contains(err.Error(), "diffusion failed") {
		t.Errorf("have error %v", err)
	}
	if c.Helper.Cache().InSweep() {
		t.Error("a failed sweep left the column density cache in a sweep")
	}
}

func TestColumn_errorMidSweep(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 1, true)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	// Fail below the top level so that some samples are already pending.
	c.Helper = mustHelper(t, c.Helper.Composition(), kin, &failAt{z: c.Altitudes[2]})
	if err := c.Run(); err == nil {
		t.Fatal("expected an error")
	}
	cache := c.Helper.Cache()
	if cache.InSweep() {
		t.Error("a failed sweep left the column density cache in a sweep")
	}
	if cache.Pending() != 0 {
		t.Errorf("pending: have %d, want 0", cache.Pending())
	}
}

// failAt is a diffusion model that fails at one altitude.
type failAt struct{ z float64 }

func (f *failAt) Diffusion(conc, dconcdz []float64, z float64) ([]float64, error) {
	if z == f.z {
		return nil, fmt.Errorf("diffusion failed at %g", z)
	}
	return make([]float64, len(conc)), nil
}

func mustHelper(t *testing.T, m *AtmosphericMixture, kin Kinetics, diff Diffusion) *PhysicsHelper {
	h, err := NewPhysicsHelper(m.Len(), m, kin, diff)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestColumnInitErrors(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 1, true)
	if err := FirstGuessInit()(c); err == nil {
		t.Error("first guess without a grid should cause an error")
	}
	if err := UniformGrid(0, 10, 1)(c); err == nil {
		t.Error("a single level should cause an error")
	}
	if err := UniformGrid(10, 10, 3)(c); err == nil {
		t.Error("zmax <= zmin should cause an error")
	}
	if err := Sweep(true)(c); err == nil {
		t.Error("sweeping an empty column should cause an error")
	}
	if err := UniformGrid(0, 10, 3)(c); err != nil {
		t.Fatal(err)
	}
	if c.Altitudes[0] != 0 || c.Altitudes[1] != 5 || c.Altitudes[2] != 10 {
		t.Errorf("altitudes: have %v", c.Altitudes)
	}
}

func TestColumnResults(t *testing.T) {
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 1, true)
	c.CleanupFuncs = []DomainManipulator{func(c *Column) error {
		z, conc, cols := c.Results()
		if len(z) != 5 || len(conc) != 5 || len(cols) != 5 {
			return fmt.Errorf("have %d altitudes, %d densities, %d columns", len(z), len(conc), len(cols))
		}
		conc[0][0] = -1
		if c.Conc[0][0] == -1 {
			return fmt.Errorf("results share memory with the column")
		}
		// The column above the bottom level is larger than the one above
		// the top level.
		if !(cols[0][0] > cols[4][0]) {
			return fmt.Errorf("columns: bottom %g, top %g", cols[0][0], cols[4][0])
		}
		return nil
	}}
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if err := c.Cleanup(); err != nil {
		t.Error(err)
	}
}

func TestLog(t *testing.T) {
	b := new(bytes.Buffer)
	l := logrus.New()
	l.Out = b
	l.Level = logrus.DebugLevel
	diff, kin := zeroStubs()
	c := testColumn(t, 0, diff, kin, 2, true)
	c.RunFuncs = append(c.RunFuncs, Log(l))
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(b.String(), "sweep finished"); n != 2 {
		t.Errorf("have %d log messages, want 2:\n%s", n, b.String())
	}
}
