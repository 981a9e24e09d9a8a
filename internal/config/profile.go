package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// StationProfile describes the instrument site. It is read from the YAML file
// named by STATION_PROFILE.
type StationProfile struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	AltitudeM float64 `yaml:"altitude_m"`

	Scattering domain.ScatteringConfig `yaml:"scattering"`
}

// DefaultStationProfile is used when no profile file is configured.
func DefaultStationProfile() *StationProfile {
	return &StationProfile{
		ID:         "parsivel",
		Scattering: domain.DefaultScatteringConfig(),
	}
}

// LoadStationProfile reads a station profile. An empty path yields the
// default profile. Scattering keys missing from the file keep their defaults.
func LoadStationProfile(path string) (*StationProfile, error) {
	p := DefaultStationProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse station profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("station profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks identity, coordinates and scattering settings.
func (p *StationProfile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude out of range: %g", p.Latitude))
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude out of range: %g", p.Longitude))
	}
	if err := p.Scattering.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
