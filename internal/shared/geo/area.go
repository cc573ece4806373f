package geo

import "math"

// PolygonAreaM2 returns the enclosed area in square metres of the polygon
// formed by points, with the last point implicitly connected back to the
// first. The accumulation is a spherical-excess approximation: for each edge
// it adds rad(lng2-lng1) * (2 + sin(rad(lat1)) + sin(rad(lat2))), then scales
// by R²/2 and takes the absolute value. Area-based reward tiers depend on
// this exact ordering and sign convention, so it must not be reformulated.
//
// Fewer than 3 points enclose nothing and return 0.
func PolygonAreaM2(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	const earthRadiusM = earthRadiusKm * 1000

	sum := 0.0
	for i := range points {
		p1 := points[i]
		p2 := points[(i+1)%len(points)]
		sum += degreesToRadians(p2.Lng-p1.Lng) *
			(2 + math.Sin(degreesToRadians(p1.Lat)) + math.Sin(degreesToRadians(p2.Lat)))
	}

	return math.Abs(sum * earthRadiusM * earthRadiusM / 2)
}
