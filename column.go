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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CacheOption configures a ColumnDensityCache.
type CacheOption func(*ColumnDensityCache)

// WithAltitudeResolution makes the cache treat altitudes that round to the
// same multiple of dz [km] as the same altitude. By default altitudes
// must match exactly.
func WithAltitudeResolution(dz float64) CacheOption {
	return func(c *ColumnDensityCache) {
		c.resolution = dz
	}
}

type sample struct {
	z    float64
	conc []float64
}

// ColumnDensityCache holds the column density of each species above each
// altitude the solver has visited. Column densities are integrated from
// the concentrations the solver reports once a full sweep over the known
// altitudes has been observed; until then the values from the previous
// sweep are served, or the analytic estimate for altitudes that have
// never been integrated.
//
// A ColumnDensityCache is not safe for concurrent use.
type ColumnDensityCache struct {
	estimator ColumnEstimator

	entries map[float64][]float64
	pending []sample

	// touched holds the altitudes sampled since the last recomputation.
	touched map[float64]bool

	resolution float64

	// inSweep is true between BeginSweep and EndSweep.
	inSweep bool
}

// NewColumnDensityCache returns an empty cache that falls back on est for
// altitudes without an integrated column.
func NewColumnDensityCache(est ColumnEstimator, opts ...CacheOption) *ColumnDensityCache {
	c := &ColumnDensityCache{
		estimator: est,
		entries:   make(map[float64][]float64),
		touched:   make(map[float64]bool),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// key returns the map key for altitude z.
func (c *ColumnDensityCache) key(z float64) float64 {
	if c.resolution > 0 {
		return math.Round(z/c.resolution) * c.resolution
	}
	return z
}

// Get returns the column densities above altitude z. If z has not been
// seen by Update, the analytic estimate is returned and nothing is stored.
func (c *ColumnDensityCache) Get(z float64) []float64 {
	if v, ok := c.entries[c.key(z)]; ok {
		o := make([]float64, len(v))
		copy(o, v)
		return o
	}
	return c.estimator.ColumnEstimate(z)
}

// Update records the concentrations conc observed at altitude z. New
// altitudes are seeded with the analytic estimate at their key. When
// every known altitude has been sampled since the last recomputation,
// the column densities are recomputed, unless an explicit sweep is open
// or this sample introduced a new altitude.
func (c *ColumnDensityCache) Update(z float64, conc []float64) {
	k := c.key(z)
	seeded := false
	if _, ok := c.entries[k]; !ok {
		c.entries[k] = c.estimator.ColumnEstimate(k)
		seeded = true
	}
	cc := make([]float64, len(conc))
	copy(cc, conc)
	c.pending = append(c.pending, sample{z: k, conc: cc})
	c.touched[k] = true

	if !c.inSweep && !seeded && len(c.touched) == len(c.entries) {
		c.Recompute()
	}
}

// BeginSweep opens an explicit sweep. Until EndSweep is called the
// cache does not try to detect the end of the sweep from the number of
// samples it receives.
func (c *ColumnDensityCache) BeginSweep() {
	c.inSweep = true
}

// EndSweep closes an explicit sweep and integrates the samples received
// since the last recomputation.
func (c *ColumnDensityCache) EndSweep() {
	c.inSweep = false
	c.Recompute()
}

// Recompute integrates the pending samples from the top of the column
// downward and clears them. Only the latest sample at each altitude is
// used. The column above the topmost sample keeps its previous value.
// Each lower sample gets the column of the sample above it plus that
// sample's concentration times the distance between the two.
func (c *ColumnDensityCache) Recompute() {
	if len(c.pending) == 0 {
		return
	}
	latest := make(map[float64]sample, len(c.touched))
	for _, s := range c.pending {
		latest[s.z] = s
	}
	batch := make([]sample, 0, len(latest))
	for _, s := range latest {
		batch = append(batch, s)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].z > batch[j].z })

	for i := 1; i < len(batch); i++ {
		cur, above := batch[i], batch[i-1]
		col := c.entries[cur.z]
		copy(col, c.entries[above.z])
		floats.AddScaled(col, above.z-cur.z, above.conc)
	}
	c.pending = c.pending[:0]
	c.touched = make(map[float64]bool)
}

// Len returns the number of altitudes in the cache.
func (c *ColumnDensityCache) Len() int { return len(c.entries) }

// Pending returns the number of samples received since the last
// recomputation.
func (c *ColumnDensityCache) Pending() int { return len(c.pending) }

// InSweep reports whether an explicit sweep is open.
func (c *ColumnDensityCache) InSweep() bool { return c.inSweep }

// Altitudes returns the altitudes in the cache from highest to lowest.
func (c *ColumnDensityCache) Altitudes() []float64 {
	z := make([]float64, 0, len(c.entries))
	for k := range c.entries {
		z = append(z, k)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(z)))
	return z
}

// Columns returns a copy of the column densities of every altitude in the
// cache.
func (c *ColumnDensityCache) Columns() map[float64][]float64 {
	o := make(map[float64][]float64, len(c.entries))
	for k, v := range c.entries {
		vv := make([]float64, len(v))
		copy(vv, v)
		o[k] = vv
	}
	return o
}
