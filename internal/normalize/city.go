package normalize

import "strings"

// CleanCityName strips the city-designator prefixes feed settlements carry.
func CleanCityName(city string) string {
	city = strings.ReplaceAll(city, "г.", "")
	city = strings.ReplaceAll(city, "город", "")
	return strings.TrimSpace(city)
}

// ExtractCity returns the city name for a feed storage point: the settlement
// field when present, otherwise the fifth comma-separated part of the full
// address (the position KLADR-style addresses keep the city in). "N/A" when
// neither yields anything.
func ExtractCity(settlement, address string) string {
	if s := strings.TrimSpace(settlement); s != "" {
		return CleanCityName(s)
	}
	if address != "" {
		parts := strings.Split(address, ", ")
		if len(parts) >= 5 {
			return CleanCityName(parts[4])
		}
	}
	return "N/A"
}
