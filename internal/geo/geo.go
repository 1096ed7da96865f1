package geo

import "math"

// EarthRadiusKm es el radio medio de la Tierra usado por la fórmula de haversine.
const EarthRadiusKm = 6371.0

// Point es una coordenada en grados decimales.
type Point struct {
	Lat float64
	Lon float64
}

// Valid indica si la coordenada está dentro de los rangos geográficos.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceKm calcula la distancia de círculo máximo (haversine) entre dos puntos, en km.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Cerca de las antípodas el redondeo puede dejar a apenas fuera de [0,1].
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance es DistanceKm sobre Points.
func Distance(a, b Point) float64 {
	return DistanceKm(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Within indica si p está a radiusKm o menos de origin (borde inclusivo).
func Within(origin Point, radiusKm float64, p Point) bool {
	return Distance(origin, p) <= radiusKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
