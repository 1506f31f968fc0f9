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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ReadTemperature reads a temperature table from r. The first line is a
// header and is skipped. Each following line holds a temperature [K] and an
// altitude [km], optionally followed by other columns, which are ignored.
func ReadTemperature(r io.Reader) (temperature, altitude []float64, err error) {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		if line == 1 {
			continue
		}
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("planet: temperature line %d: need at least 2 columns, got %d", line, len(fields))
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("planet: temperature line %d: %v", line, err)
		}
		z, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("planet: temperature line %d: %v", line, err)
		}
		temperature = append(temperature, t)
		altitude = append(altitude, z)
	}
	if err := s.Err(); err != nil {
		return nil, nil, fmt.Errorf("planet: reading temperature: %v", err)
	}
	return temperature, altitude, nil
}

// LoadTemperatureFile reads the temperature table in the given file and
// uses it for both the neutral and the ionic temperature.
func LoadTemperatureFile(fileName string) (*AtmosphericTemperature, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("planet: opening temperature file: %v", err)
	}
	defer f.Close()
	t, z, err := ReadTemperature(f)
	if err != nil {
		return nil, err
	}
	return NewAtmosphericTemperature(t, t, z, z)
}

// WriteProfile writes altitude profiles of species densities and column
// densities to w as tab-separated text. Each line of header is written
// first as a comment.
func WriteProfile(w io.Writer, header []string, species []string, altitudes []float64, conc, columns [][]float64) error {
	bw := bufio.NewWriter(w)
	for _, h := range header {
		fmt.Fprintf(bw, "# %s\n", h)
	}
	cols := append([]string{"z"}, species...)
	for _, s := range species {
		cols = append(cols, "N_"+s)
	}
	fmt.Fprintln(bw, strings.Join(cols, "\t"))
	for i, z := range altitudes {
		if len(conc[i]) != len(species) || len(columns[i]) != len(species) {
			return fmt.Errorf("planet: writing profile: level %d has %d densities and %d columns for %d species",
				i, len(conc[i]), len(columns[i]), len(species))
		}
		fmt.Fprintf(bw, "%g", z)
		for _, v := range conc[i] {
			fmt.Fprintf(bw, "\t%.6e", v)
		}
		for _, v := range columns[i] {
			fmt.Fprintf(bw, "\t%.6e", v)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// PlotProfile writes a PNG figure of the vertical profile of each species
// density to w.
func PlotProfile(w io.Writer, species []string, altitudes []float64, conc [][]float64) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("planet: plotting profile: %v", err)
	}
	p.X.Label.Text = "log₁₀ density (cm⁻³)"
	p.Y.Label.Text = "Altitude (km)"
	var lines []interface{}
	for s, name := range species {
		xy := make(plotter.XYs, len(altitudes))
		for i, z := range altitudes {
			xy[i].X = math.Log10(math.Max(conc[i][s], math.SmallestNonzeroFloat64))
			xy[i].Y = z
		}
		lines = append(lines, name, xy)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return fmt.Errorf("planet: plotting profile: %v", err)
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("planet: plotting profile: %v", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
