package utils

import (
	"errors"
	"fmt"
)

// ValidateCoordinate checks that a lat/lng pair is on the globe. Zero/zero
// is fine: imported rows carry it until the geocoding enrichment runs.
func ValidateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range: must be between -90 and 90", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range: must be between -180 and 180", lng)
	}
	return nil
}

// ValidateItalianCAP sanity-checks a postal code: five digits or empty.
func ValidateItalianCAP(cap string) error {
	if cap == "" {
		return nil
	}
	if len(cap) != 5 {
		return errors.New("cap must be 5 digits")
	}
	for _, r := range cap {
		if r < '0' || r > '9' {
			return errors.New("cap must be 5 digits")
		}
	}
	return nil
}
