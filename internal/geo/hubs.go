// Package geo holds the static origin and fulfillment hub tables and the
// great-circle distance used to convert a resolved origin into kilometers.
package geo

// Hub is a representative shipping point for a country.
type Hub struct {
	Country string  `json:"country"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// UKHub is the default domestic fulfillment hub and the fallback destination
// when no geocoded point is supplied.
var UKHub = Hub{Country: "UK", City: "Dunstable", Lat: 51.8821, Lon: -0.5057}

// originHubs maps a country to its representative export hub.
var originHubs = map[string]Hub{
	"China":       {Country: "China", City: "Shanghai", Lat: 31.2304, Lon: 121.4737},
	"Germany":     {Country: "Germany", City: "Frankfurt", Lat: 50.1109, Lon: 8.6821},
	"USA":         {Country: "USA", City: "San Francisco", Lat: 37.7749, Lon: -122.4194},
	"Japan":       {Country: "Japan", City: "Tokyo", Lat: 35.6895, Lon: 139.6917},
	"UK":          {Country: "UK", City: "London", Lat: 51.509865, Lon: -0.118092},
	"Italy":       {Country: "Italy", City: "Castel San Giovanni", Lat: 45.0667, Lon: 9.4167},
	"India":       {Country: "India", City: "New Delhi", Lat: 28.6139, Lon: 77.2090},
	"South Korea": {Country: "South Korea", City: "Seoul", Lat: 37.5665, Lon: 126.9780},
	"Spain":       {Country: "Spain", City: "Madrid", Lat: 40.4168, Lon: -3.7038},
	"Poland":      {Country: "Poland", City: "Warsaw", Lat: 52.2297, Lon: 21.0122},
	"Netherlands": {Country: "Netherlands", City: "Amsterdam", Lat: 52.3676, Lon: 4.9041},
}

// fulfillmentCenters maps a marketplace country to its domestic hub.
var fulfillmentCenters = map[string]Hub{
	"UK":          {Country: "UK", City: "Dunstable", Lat: 51.8821, Lon: -0.5057},
	"Germany":     {Country: "Germany", City: "Frankfurt", Lat: 50.1109, Lon: 8.6821},
	"France":      {Country: "France", City: "Paris", Lat: 48.8566, Lon: 2.3522},
	"Italy":       {Country: "Italy", City: "Castel San Giovanni", Lat: 45.0667, Lon: 9.4167},
	"USA":         {Country: "USA", City: "San Francisco", Lat: 37.7749, Lon: -122.4194},
	"Spain":       {Country: "Spain", City: "Madrid", Lat: 40.4168, Lon: -3.7038},
	"Netherlands": {Country: "Netherlands", City: "Amsterdam", Lat: 52.3676, Lon: 4.9041},
	"Poland":      {Country: "Poland", City: "Warsaw", Lat: 52.2297, Lon: 21.0122},
}

// OriginHub returns the export hub for a country, falling back to the UK
// London hub for countries without an entry.
func OriginHub(country string) Hub {
	if h, ok := originHubs[country]; ok {
		return h
	}
	return originHubs["UK"]
}

// HasOriginHub reports whether a country has its own export hub entry.
func HasOriginHub(country string) bool {
	_, ok := originHubs[country]
	return ok
}

// OriginCity returns the hub city for a country, or "Unknown" when the
// country has no hub entry.
func OriginCity(country string) string {
	if h, ok := originHubs[country]; ok {
		return h.City
	}
	return "Unknown"
}

// FulfillmentHub returns the domestic hub for a marketplace country,
// defaulting to the UK hub.
func FulfillmentHub(country string) Hub {
	if h, ok := fulfillmentCenters[country]; ok {
		return h
	}
	return fulfillmentCenters["UK"]
}

// OriginCountries lists the countries with dedicated export hubs.
func OriginCountries() []string {
	out := make([]string, 0, len(originHubs))
	for c := range originHubs {
		out = append(out, c)
	}
	return out
}
