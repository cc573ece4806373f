package geo

import "math"

// PointInPolygon reports whether p lies inside the polygon (last vertex
// implicitly connected back to the first), using an even-odd ray cast along
// the longitude axis.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		a, b := polygon[i], polygon[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) &&
			p.Lng < (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistanceToSegmentM returns the distance in metres from p to segment a-b.
// The projection happens in a locally flat frame centred on a, with longitude
// scaled by cos(lat) so both axes are in comparable units.
func DistanceToSegmentM(p, a, b Point) float64 {
	latScale := math.Cos(degreesToRadians(a.Lat))

	ax, ay := 0.0, 0.0
	bx, by := (b.Lng-a.Lng)*latScale, b.Lat-a.Lat
	px, py := (p.Lng-a.Lng)*latScale, p.Lat-a.Lat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return DistanceM(p, a)
	}

	t := (px*dx + py*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nearest := Point{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lng: a.Lng + t*(b.Lng-a.Lng),
	}
	return DistanceM(p, nearest)
}

// DistanceToPolygonM returns the minimum distance in metres from p to the
// boundary of the polygon. A point inside the polygon returns 0.
func DistanceToPolygonM(p Point, polygon []Point) float64 {
	if len(polygon) < 3 {
		return math.Inf(1)
	}
	if PointInPolygon(p, polygon) {
		return 0
	}

	min := math.Inf(1)
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		if d := DistanceToSegmentM(p, polygon[j], polygon[i]); d < min {
			min = d
		}
		j = i
	}
	return min
}

// PathIntersectsPolygon reports whether any segment of the open path crosses
// an edge of the polygon, or any path point lies inside it.
func PathIntersectsPolygon(path, polygon []Point) bool {
	if len(polygon) < 3 || len(path) == 0 {
		return false
	}

	for _, p := range path {
		if PointInPolygon(p, polygon) {
			return true
		}
	}

	for i := 0; i+1 < len(path); i++ {
		j := len(polygon) - 1
		for k := 0; k < len(polygon); k++ {
			if SegmentsCross(path[i], path[i+1], polygon[j], polygon[k]) {
				return true
			}
			j = k
		}
	}
	return false
}
