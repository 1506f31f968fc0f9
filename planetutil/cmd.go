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

// Package planetutil contains the command-line interface for the Planet
// atmospheric model.
package planetutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/planet"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	// Options are the configuration options available to Planet.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TemperatureFile",
			usage: `
              TemperatureFile is the path to the temperature table. The first
              line is a header; each following line holds a temperature [K]
              and an altitude [km]. It can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/planet/testdata/temperature.dat",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), temperatureCmd.Flags()},
		},
		{
			name: "ChemistryFile",
			usage: `
              ChemistryFile is the path to the TOML file holding the species
              and reactions. It can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/planet/testdata/chemistry.toml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Zmin",
			usage: `
              Zmin is the altitude of the bottom of the column [km].`,
			defaultVal: 600.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Zmax",
			usage: `
              Zmax is the altitude of the top of the column [km].`,
			defaultVal: 1000.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumLevels",
			usage: `
              NumLevels is the number of evenly spaced model levels.`,
			defaultVal: 21,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TotalDensity",
			usage: `
              TotalDensity is the total number density at Zmin [cm⁻³].`,
			defaultVal: 1.e13,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Dt",
			usage: `
              Dt is the pseudo time step [s].`,
			defaultVal: 1.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumIterations",
			usage: `
              NumIterations is the number of sweeps to calculate. If < 1, sweeps
              continue until the largest relative change is below Tolerance.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Tolerance",
			usage: `
              Tolerance is the largest relative change in density during a sweep
              at which the simulation is considered converged.`,
			defaultVal: 1.e-6,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Diffusion",
			usage: `
              Diffusion is the vertical transport model. Valid options are
              "molecular", "eddy", and "combined".`,
			defaultVal: "combined",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "K0",
			usage: `
              K0 is the eddy diffusion coefficient at Zmin [cm²/s].`,
			defaultVal: 3.e7,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Ions",
			usage: `
              Ions specifies whether ionic reactions are included.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SolarZenithCosine",
			usage: `
              SolarZenithCosine is the cosine of the solar zenith angle used to
              attenuate photolysis.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AltitudeResolution",
			usage: `
              AltitudeResolution [km] is the resolution at which the column
              density cache matches altitudes. If 0, altitudes must match exactly.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ExplicitSweeps",
			usage: `
              ExplicitSweeps specifies whether the solver tells the column density
              cache when each sweep begins and ends. If false, the cache detects the
              end of a sweep by counting samples.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Planet.Mass",
			usage: `
              Planet.Mass is the mass of the planet [kg].`,
			defaultVal: planet.Titan.Mass,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Planet.Radius",
			usage: `
              Planet.Radius is the radius of the planet [km].`,
			defaultVal: planet.Titan.Radius,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output profile location. It can
              include environment variables.`,
			defaultVal: "planet_output.txt",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to a PNG figure of the output profile. If it is
              left blank, no figure is made.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages: "debug", "info",
              "warning", or "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "altitudes",
			usage: `
              altitudes is a list of altitudes [km] at which to print temperatures.`,
			defaultVal: []string{"600", "900", "1200"},
			flagsets:   []*pflag.FlagSet{temperatureCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PLANET")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(temperatureCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("planet: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "planet",
	Short: "A one-dimensional photochemical model for planetary atmospheres.",
	Long: `Planet computes steady-state vertical profiles of chemical species in a
planetary atmosphere, accounting for molecular and eddy diffusion, chemical
reactions, and photolysis attenuated by the overlying atmosphere.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PLANET_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Planet.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Planet v%s\n", planet.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a steady-state column simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run sweeps the model column until the species densities reach a steady
state or NumIterations sweeps have been made, and writes the resulting
density and column density profiles to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := RunConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		return Run(cmd.OutOrStdout(), cfg)
	},
	DisableAutoGenTag: true,
}

// temperatureCmd prints interpolated temperatures.
var temperatureCmd = &cobra.Command{
	Use:   "temperature",
	Short: "Print temperatures at given altitudes.",
	Long: `temperature prints the neutral, ionic and electronic temperatures
interpolated from TemperatureFile at each of the given altitudes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := planet.LoadTemperatureFile(os.ExpandEnv(Cfg.GetString("TemperatureFile")))
		if err != nil {
			return err
		}
		alts := Cfg.GetStringSlice("altitudes")
		cmd.Printf("z\tTn\tTi\tTe\n")
		for _, a := range alts {
			z, err := cast.ToFloat64E(a)
			if err != nil {
				return fmt.Errorf("planet: invalid altitude %q: %v", a, err)
			}
			cmd.Printf("%g\t%.2f\t%.2f\t%.2f\n", z, t.NeutralTemperature(z),
				t.IonicTemperature(z), t.ElectronicTemperature(z))
		}
		return nil
	},
	DisableAutoGenTag: true,
}
