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

// Band limits [km] and temperatures [K] of the electronic temperature
// profile.
const (
	electronLowAltitude  = 900.
	electronHighAltitude = 1400.
	electronLowT         = 180.
	electronHighT        = 1150.
	electronHighSlope    = 0.1 // K/km
)

// AtmosphericTemperature holds the neutral, ionic and electronic
// temperature profiles of an atmosphere.
type AtmosphericTemperature struct {
	neutral, ionic, electronic profile
}

// NewAtmosphericTemperature creates a new temperature profile from
// neutral and ionic temperatures [K] tabulated at the given altitudes [km].
// The electronic temperature is derived from the neutral altitudes.
// Each table must be monotonic in altitude, either ascending or descending.
func NewAtmosphericTemperature(neutral, ionic, neutralAlt, ionicAlt []float64) (*AtmosphericTemperature, error) {
	var err error
	t := new(AtmosphericTemperature)
	if t.neutral, err = newProfile(neutralAlt, neutral); err != nil {
		return nil, fmt.Errorf("planet: neutral temperature: %v", err)
	}
	if t.ionic, err = newProfile(ionicAlt, ionic); err != nil {
		return nil, fmt.Errorf("planet: ionic temperature: %v", err)
	}
	electronAlt := make([]float64, len(neutralAlt))
	copy(electronAlt, neutralAlt)
	t.electronic = profile{z: electronAlt, v: DeriveElectronicTemperature(electronAlt)}
	return t, nil
}

// DeriveElectronicTemperature returns the electronic temperature [K] at each of
// the given altitudes [km]. It is constant below 900 km, increases linearly
// from 180 K to 1150 K between 900 and 1400 km, and increases by
// 0.1 K/km above that.
func DeriveElectronicTemperature(z []float64) []float64 {
	o := make([]float64, len(z))
	for i, zi := range z {
		switch {
		case zi < electronLowAltitude:
			o[i] = electronLowT
		case zi < electronHighAltitude:
			o[i] = electronLowT + (zi-electronLowAltitude)/(electronHighAltitude-electronLowAltitude)*
				(electronHighT-electronLowT)
		default:
			o[i] = electronHighT + electronHighSlope*(zi-electronHighAltitude)
		}
	}
	return o
}

// NeutralTemperature returns the neutral temperature at altitude z.
func (t *AtmosphericTemperature) NeutralTemperature(z float64) float64 {
	return t.neutral.value(z)
}

// IonicTemperature returns the ionic temperature at altitude z.
func (t *AtmosphericTemperature) IonicTemperature(z float64) float64 {
	return t.ionic.value(z)
}

// ElectronicTemperature returns the electronic temperature at altitude z.
func (t *AtmosphericTemperature) ElectronicTemperature(z float64) float64 {
	return t.electronic.value(z)
}

// DNeutralTemperatureDz returns the vertical gradient of the neutral
// temperature at altitude z [K/km].
func (t *AtmosphericTemperature) DNeutralTemperatureDz(z float64) float64 {
	return t.neutral.derivative(z)
}

// DIonicTemperatureDz returns the vertical gradient of the ionic
// temperature at altitude z [K/km].
func (t *AtmosphericTemperature) DIonicTemperatureDz(z float64) float64 {
	return t.ionic.derivative(z)
}

// DElectronicTemperatureDz returns the vertical gradient of the electronic
// temperature at altitude z [K/km].
func (t *AtmosphericTemperature) DElectronicTemperatureDz(z float64) float64 {
	return t.electronic.derivative(z)
}

// NeutralAltitude returns the altitudes of the neutral temperature table.
func (t *AtmosphericTemperature) NeutralAltitude() []float64 { return t.neutral.z }

// NeutralTemperatures returns the tabulated neutral temperatures.
func (t *AtmosphericTemperature) NeutralTemperatures() []float64 { return t.neutral.v }

// IonicAltitude returns the altitudes of the ionic temperature table.
func (t *AtmosphericTemperature) IonicAltitude() []float64 { return t.ionic.z }

// IonicTemperatures returns the tabulated ionic temperatures.
func (t *AtmosphericTemperature) IonicTemperatures() []float64 { return t.ionic.v }

// ElectronicAltitude returns the altitudes of the electronic temperature table.
func (t *AtmosphericTemperature) ElectronicAltitude() []float64 { return t.electronic.z }

// ElectronicTemperatures returns the derived electronic temperatures.
func (t *AtmosphericTemperature) ElectronicTemperatures() []float64 { return t.electronic.v }
