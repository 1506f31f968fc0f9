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
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/planet"
)

// RunConfig holds the settings for a column simulation.
type RunConfig struct {
	TemperatureFile, ChemistryFile string

	Zmin, Zmax   float64 // km
	NumLevels    int
	TotalDensity float64 // cm⁻³

	Dt            float64 // s
	NumIterations int
	Tolerance     float64

	Diffusion string
	K0        float64 // cm²/s
	Ions      bool

	SolarZenithCosine float64

	AltitudeResolution float64 // km
	ExplicitSweeps     bool

	Planet planet.Body

	OutputFile, PlotFile, LogFile string
	LogLevel                      logrus.Level
}

// RunConfigFromViper reads a RunConfig from cfg, expanding environment
// variables in file paths and checking the values for consistency.
func RunConfigFromViper(cfg *viper.Viper) (*RunConfig, error) {
	c := &RunConfig{
		TemperatureFile:    os.ExpandEnv(cfg.GetString("TemperatureFile")),
		ChemistryFile:      os.ExpandEnv(cfg.GetString("ChemistryFile")),
		Zmin:               cfg.GetFloat64("Zmin"),
		Zmax:               cfg.GetFloat64("Zmax"),
		NumLevels:          cfg.GetInt("NumLevels"),
		TotalDensity:       cfg.GetFloat64("TotalDensity"),
		Dt:                 cfg.GetFloat64("Dt"),
		NumIterations:      cfg.GetInt("NumIterations"),
		Tolerance:          cfg.GetFloat64("Tolerance"),
		Diffusion:          cfg.GetString("Diffusion"),
		K0:                 cfg.GetFloat64("K0"),
		Ions:               cfg.GetBool("Ions"),
		SolarZenithCosine:  cfg.GetFloat64("SolarZenithCosine"),
		AltitudeResolution: cfg.GetFloat64("AltitudeResolution"),
		ExplicitSweeps:     cfg.GetBool("ExplicitSweeps"),
		Planet: planet.Body{
			Mass:   cfg.GetFloat64("Planet.Mass"),
			Radius: cfg.GetFloat64("Planet.Radius"),
		},
	}
	var err error
	c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return nil, err
	}
	if pf := cfg.GetString("PlotFile"); pf != "" {
		c.PlotFile, err = checkOutputFile(pf)
		if err != nil {
			return nil, err
		}
	}
	c.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), c.OutputFile)
	c.LogLevel, err = logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, fmt.Errorf("planet: invalid LogLevel: %v", err)
	}

	if c.TemperatureFile == "" {
		return nil, fmt.Errorf("planet: you need to specify a TemperatureFile")
	}
	if c.ChemistryFile == "" {
		return nil, fmt.Errorf("planet: you need to specify a ChemistryFile")
	}
	vars := []float64{c.TotalDensity, c.Dt, c.SolarZenithCosine}
	varNames := []string{"TotalDensity", "Dt", "SolarZenithCosine"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, fmt.Errorf("planet: parsing configuration: %s=%g but should be >0", varNames[i], v)
		}
	}
	if c.AltitudeResolution < 0 {
		return nil, fmt.Errorf("planet: parsing configuration: AltitudeResolution=%g but should be >=0", c.AltitudeResolution)
	}
	if c.NumIterations < 1 && !(c.Tolerance > 0) {
		return nil, fmt.Errorf("planet: parsing configuration: Tolerance must be >0 when NumIterations < 1")
	}
	return c, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`planet: you need to specify an output file configuration variable (for example: OutputFile="output.txt")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("planet: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
