package customer

import (
	"strings"

	"aircare/models"
)

func componentOf(place models.PlaceResult, kinds ...string) string {
	for _, kind := range kinds {
		for _, c := range place.AddressComponents {
			for _, t := range c.Types {
				if t == kind {
					return c.LongName
				}
			}
		}
	}
	return ""
}

// AddressFromPlace extracts block number, street, postal code and region
// from a place's address components.
func AddressFromPlace(place models.PlaceResult) models.Address {
	block := componentOf(place, "street_number", "premise")
	street := componentOf(place, "route")
	blockStreet := strings.TrimSpace(block + " " + street)
	if blockStreet == "" && place.FormattedAddress != "" {
		blockStreet = strings.TrimSpace(strings.Split(place.FormattedAddress, ",")[0])
	}
	return models.Address{
		BlockStreet: blockStreet,
		PostalCode:  componentOf(place, "postal_code"),
		Region:      componentOf(place, "neighborhood", "sublocality", "locality"),
	}
}
