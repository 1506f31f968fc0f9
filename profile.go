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
	"sort"
)

// profile is a tabulated function of altitude that is evaluated by
// piecewise-linear interpolation. The altitudes may be in ascending or
// descending order but must be monotonic; this is not checked.
type profile struct {
	z, v []float64
}

func newProfile(z, v []float64) (profile, error) {
	if len(z) != len(v) {
		return profile{}, fmt.Errorf("planet: profile has %d altitudes but %d values", len(z), len(v))
	}
	if len(z) < 2 {
		return profile{}, fmt.Errorf("planet: profile needs at least 2 points, has %d", len(z))
	}
	return profile{z: z, v: v}, nil
}

// segment returns the index i of the segment [i, i+1] that brackets
// altitude z. Altitudes beyond either end of the table map to the edge
// segment so that evaluation extrapolates with its slope.
func (p profile) segment(z float64) int {
	n := len(p.z)
	ascending := p.z[n-1] >= p.z[0]
	// j is the first knot past z in table order.
	j := sort.Search(n, func(i int) bool {
		if ascending {
			return p.z[i] > z
		}
		return p.z[i] < z
	})
	switch {
	case j <= 0:
		return 0
	case j >= n:
		return n - 2
	}
	return j - 1
}

// value returns the interpolated value at altitude z.
func (p profile) value(z float64) float64 {
	i := p.segment(z)
	if z == p.z[i] {
		return p.v[i]
	}
	if z == p.z[i+1] {
		return p.v[i+1]
	}
	return p.v[i] + (p.v[i+1]-p.v[i])/(p.z[i+1]-p.z[i])*(z-p.z[i])
}

// derivative returns the slope of the segment used by value at z.
func (p profile) derivative(z float64) float64 {
	i := p.segment(z)
	return (p.v[i+1] - p.v[i]) / (p.z[i+1] - p.z[i])
}
