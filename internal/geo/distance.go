package geo

import "math"

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// DistanceKM returns the hub-to-hub distance rounded to one decimal place.
func DistanceKM(a, b Hub) float64 {
	return math.Round(Haversine(a.Lat, a.Lon, b.Lat, b.Lon)*10) / 10
}

// DistanceToPointKM returns the distance from a hub to an arbitrary geocoded
// point, rounded to one decimal place.
func DistanceToPointKM(h Hub, lat, lon float64) float64 {
	return math.Round(Haversine(h.Lat, h.Lon, lat, lon)*10) / 10
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
