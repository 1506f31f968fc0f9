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

package planetutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/planet"
	"github.com/spatialmodel/planet/internal/hash"
	"github.com/spatialmodel/planet/science/diffusion"
	"github.com/spatialmodel/planet/science/kinetics"
)

// Run runs a column simulation with the given configuration, writing log
// messages to out and to cfg.LogFile.
func Run(out io.Writer, cfg *RunConfig) error {
	logfile, err := os.Create(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("planet: problem creating log file: %v", err)
	}
	defer logfile.Close()

	log := logrus.New()
	log.Out = io.MultiWriter(out, logfile)
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	log.Level = cfg.LogLevel

	c, names, err := NewColumn(cfg, log)
	if err != nil {
		return err
	}
	startTime := time.Now()
	log.WithFields(logrus.Fields{
		"levels":  len(c.Altitudes),
		"species": len(names),
		"config":  hash.Hash(cfg),
	}).Info("starting simulation")

	if err = c.Init(); err != nil {
		return err
	}
	if err = c.Run(); err != nil {
		return err
	}
	if err = c.Cleanup(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"iterations": c.Iteration(),
		"max_change": c.MaxChange(),
		"walltime":   time.Since(startTime).String(),
	}).Info("simulation finished")
	return nil
}

// NewColumn sets up a column from the given configuration. The returned
// column writes its results to the configured output files during cleanup.
// It also returns the names of the species.
func NewColumn(cfg *RunConfig, log logrus.FieldLogger) (*planet.Column, []string, error) {
	t, err := planet.LoadTemperatureFile(cfg.TemperatureFile)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(cfg.ChemistryFile)
	if err != nil {
		return nil, nil, fmt.Errorf("planet: opening chemistry file: %v", err)
	}
	chem, err := kinetics.ReadChemistry(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}
	mix, err := planet.NewAtmosphericMixture(chem.Species, t, cfg.TotalDensity, cfg.Zmin, cfg.Planet)
	if err != nil {
		return nil, nil, err
	}
	diff, err := diffusion.New(cfg.Diffusion, mix, cfg.K0)
	if err != nil {
		return nil, nil, err
	}
	kin, err := kinetics.NewMechanism(chem, t, cfg.SolarZenithCosine, cfg.Ions)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"reactions": kin.Len(),
		"diffusion": cfg.Diffusion,
		"ions":      cfg.Ions,
	}).Info("loaded chemistry")

	var opts []planet.CacheOption
	if cfg.AltitudeResolution > 0 {
		opts = append(opts, planet.WithAltitudeResolution(cfg.AltitudeResolution))
	}
	h, err := planet.NewPhysicsHelper(mix.Len(), mix, kin, diff, opts...)
	if err != nil {
		return nil, nil, err
	}
	names := chem.SpeciesNames()
	c := &planet.Column{
		Helper: h,
		Dt:     cfg.Dt,
		InitFuncs: []planet.DomainManipulator{
			planet.UniformGrid(cfg.Zmin, cfg.Zmax, cfg.NumLevels),
			planet.FirstGuessInit(),
		},
		RunFuncs: []planet.DomainManipulator{
			planet.Sweep(cfg.ExplicitSweeps),
			planet.Log(log),
			planet.SteadyStateConvergenceCheck(cfg.NumIterations, cfg.Tolerance),
		},
		CleanupFuncs: []planet.DomainManipulator{
			writeOutput(cfg, names, log),
		},
	}
	return c, names, nil
}

// writeOutput returns a function that writes the column profile to
// cfg.OutputFile and, if specified, a figure to cfg.PlotFile.
func writeOutput(cfg *RunConfig, names []string, log logrus.FieldLogger) planet.DomainManipulator {
	return func(c *planet.Column) error {
		z, conc, cols := c.Results()
		w, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("planet: creating output file: %v", err)
		}
		header := []string{
			fmt.Sprintf("Planet v%s", planet.Version),
			fmt.Sprintf("config %s", hash.Hash(cfg)),
			fmt.Sprintf("iterations %d", c.Iteration()),
		}
		if err = planet.WriteProfile(w, header, names, z, conc, cols); err != nil {
			w.Close()
			return err
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("planet: closing output file: %v", err)
		}
		log.WithField("file", cfg.OutputFile).Info("wrote output")

		if cfg.PlotFile == "" {
			return nil
		}
		pw, err := os.Create(cfg.PlotFile)
		if err != nil {
			return fmt.Errorf("planet: creating plot file: %v", err)
		}
		if err = planet.PlotProfile(pw, names, z, conc); err != nil {
			pw.Close()
			return err
		}
		if err = pw.Close(); err != nil {
			return fmt.Errorf("planet: closing plot file: %v", err)
		}
		log.WithField("file", cfg.PlotFile).Info("wrote plot")
		return nil
	}
}
