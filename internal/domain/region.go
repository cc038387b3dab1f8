package domain

import "strings"

// ukRegionCountries lists the countries served by the UK operations centre: Europe
// plus North and South America. Matching is deliberately substring based, so an
// entry like "mexico" also covers inputs such as "Mexico City".
var ukRegionCountries = []string{
	// Europe
	"united kingdom", "great britain", "england", "scotland", "wales",
	"ireland", "france", "germany", "spain", "portugal", "italy",
	"netherlands", "belgium", "luxembourg", "switzerland", "austria",
	"denmark", "sweden", "norway", "finland", "iceland",
	"poland", "czech", "slovakia", "hungary", "romania", "bulgaria",
	"greece", "croatia", "slovenia", "serbia",
	"estonia", "latvia", "lithuania", "malta", "cyprus",
	// North America
	"united states", "usa", "canada", "mexico",
	// South America
	"brazil", "argentina", "chile", "colombia", "peru", "ecuador",
	"uruguay", "paraguay", "bolivia", "venezuela", "guyana", "suriname",
}

// AssignRegion maps a shipping country to the operations centre responsible for
// fulfilment. Countries in Europe and the Americas route to the UK centre;
// everything else, including unmatched input, defaults to the China centre.
func AssignRegion(shippingCountry string) FulfillmentRegion {
	country := strings.ToLower(strings.TrimSpace(shippingCountry))
	if country == "" {
		return RegionChina
	}
	for _, name := range ukRegionCountries {
		if strings.Contains(country, name) {
			return RegionUK
		}
	}
	return RegionChina
}
