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
package diffusion

import (
	"math"
	"testing"

	"github.com/spatialmodel/planet"
	"gonum.org/v1/gonum/floats"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// testMixture returns a two-species mixture with a temperature that
// increases from 100 K at 0 km to 200 K at 1000 km.
func testMixture(t *testing.T) *planet.AtmosphericMixture {
	temp, err := planet.NewAtmosphericTemperature([]float64{100, 200}, []float64{100, 200},
		[]float64{0, 1000}, []float64{0, 1000})
	if err != nil {
		t.Fatal(err)
	}
	species := []planet.Species{
		{Name: "N2", MolarMass: 28, MolarFraction: 0.9, DiffusionA: 5.e16, DiffusionS: 0.75},
		{Name: "H2", MolarMass: 2, MolarFraction: 0.1, DiffusionA: 2.e17, DiffusionS: 0.8, ThermalDiffusion: -0.38},
	}
	m, err := planet.NewAtmosphericMixture(species, temp, 1.e10, 0, planet.Titan)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMolecular(t *testing.T) {
	m := testMixture(t)
	d := NewMolecular(m)
	const z = 500.
	T := 150.
	conc := []float64{9.e8, 1.e8}
	ntot := 1.e9

	for s, sp := range m.Species() {
		want := sp.DiffusionA * math.Pow(T, sp.DiffusionS) / ntot * 1.e-10
		if c := d.Coefficient(s, T, ntot); different(c, want, 1.e-10) {
			t.Errorf("coefficient %d: have %g, want %g", s, c, want)
		}
	}

	flux, err := d.Diffusion(conc, []float64{0, 0}, z)
	if err != nil {
		t.Fatal(err)
	}
	for s, sp := range m.Species() {
		h := m.ScaleHeight(sp.MolarMass, z)
		want := -d.Coefficient(s, T, ntot) * (conc[s]/h + (1+sp.ThermalDiffusion)*conc[s]/T*0.1)
		if different(flux[s], want, 1.e-10) {
			t.Errorf("flux %d: have %g, want %g", s, flux[s], want)
		}
	}
}

func TestEddy(t *testing.T) {
	m := testMixture(t)
	e := NewEddy(m, 1.e6)
	if c := e.Coefficient(1.e10); different(c, 1.e-4, 1.e-10) {
		t.Errorf("coefficient at the bottom: have %g, want 1e-4", c)
	}
	if c := e.Coefficient(2.5e9); different(c, 2.e-4, 1.e-10) {
		t.Errorf("coefficient at a quarter density: have %g, want 2e-4", c)
	}

	// A profile in hydrostatic equilibrium with the mean atmosphere
	// has no eddy flux.
	const z = 500.
	conc := []float64{9.e8, 1.e8}
	h := m.ScaleHeight(m.MeanMolarMass(), z)
	T := 150.
	grad := make([]float64, 2)
	for s := range conc {
		grad[s] = -conc[s]/h - conc[s]/T*0.1
	}
	flux, err := e.Diffusion(conc, grad, z)
	if err != nil {
		t.Fatal(err)
	}
	for s := range flux {
		if math.Abs(flux[s]) > 1.e-12*conc[s] {
			t.Errorf("flux %d: have %g, want 0", s, flux[s])
		}
	}
}

func TestCombined(t *testing.T) {
	m := testMixture(t)
	d, err := New("combined", m, 1.e6)
	if err != nil {
		t.Fatal(err)
	}
	conc := []float64{9.e8, 1.e8}
	grad := []float64{-1.e7, -1.e6}
	have, err := d.Diffusion(conc, grad, 500)
	if err != nil {
		t.Fatal(err)
	}
	mol, _ := NewMolecular(m).Diffusion(conc, grad, 500)
	eddy, _ := NewEddy(m, 1.e6).Diffusion(conc, grad, 500)
	for s := range have {
		if !floats.EqualWithinAbsOrRel(have[s], mol[s]+eddy[s], 1.e-20, 1.e-12) {
			t.Errorf("flux %d: have %g, want %g", s, have[s], mol[s]+eddy[s])
		}
	}
}

func TestNew(t *testing.T) {
	m := testMixture(t)
	for _, kind := range []string{"molecular", "eddy", "combined"} {
		if _, err := New(kind, m, 1.e6); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
	if _, err := New("turbulent", m, 1.e6); err == nil {
		t.Error("an invalid kind should cause an error")
	}
	if _, err := New("eddy", nil, 1.e6); err == nil {
		t.Error("a missing mixture should cause an error")
	}
}

func TestZeroDensity(t *testing.T) {
	m := testMixture(t)
	for _, kind := range []string{"molecular", "eddy", "combined"} {
		d, err := New(kind, m, 1.e6)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := d.Diffusion([]float64{0, 0}, []float64{0, 0}, 500); err == nil {
			t.Errorf("%s: zero density should cause an error", kind)
		}
	}
}
