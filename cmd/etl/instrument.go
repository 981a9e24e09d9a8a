package main

import (
	"fmt"

	"github.com/couchcryptid/disdrometer-etl/internal/config"
	"github.com/couchcryptid/disdrometer-etl/internal/domain"
)

// loadInstrument reads the station profile and the conditional matrix side
// file. Either one missing or malformed stops startup.
func loadInstrument(cfg *config.Config) (*config.StationProfile, *domain.Reader, error) {
	profile, err := config.LoadStationProfile(cfg.StationProfilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load station profile: %w", err)
	}
	pcm, err := domain.LoadConditionalMatrix(cfg.ConditionalMatrixPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load conditional matrix: %w", err)
	}
	return profile, domain.NewReader(domain.ParsivelGeometry(), pcm), nil
}
