package dogs

import "pura-pata/internal/geo"

// Nearby devuelve los perros disponibles a radiusKm o menos del origen.
// Mantiene el orden de entrada.
func Nearby(originLat, originLon, radiusKm float64, candidates []Dog) []Dog {
	origin := geo.Point{Lat: originLat, Lon: originLon}

	out := make([]Dog, 0)
	for _, d := range candidates {
		if d.Status != StatusAvailable {
			continue
		}
		if !geo.Within(origin, radiusKm, geo.Point{Lat: d.Latitude, Lon: d.Longitude}) {
			continue
		}
		out = append(out, d)
	}
	return out
}
