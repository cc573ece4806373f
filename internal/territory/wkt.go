package territory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// polygonWKT renders the ring as PostGIS WKT, x=lng y=lat, closing it back
// to the first vertex as POLYGON requires.
func polygonWKT(points []geo.Point) string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	for _, p := range points {
		fmt.Fprintf(&b, "%.8f %.8f,", p.Lng, p.Lat)
	}
	fmt.Fprintf(&b, "%.8f %.8f))", points[0].Lng, points[0].Lat)
	return b.String()
}

// lineWKT renders an open path as a LINESTRING.
func lineWKT(points []geo.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.8f %.8f", p.Lng, p.Lat)
	}
	return "LINESTRING(" + strings.Join(parts, ",") + ")"
}

// parsePolygonWKT reads the ring back out of ST_AsText output, dropping the
// repeated closing vertex.
func parsePolygonWKT(wkt string) ([]geo.Point, error) {
	s := strings.TrimSpace(wkt)
	if !strings.HasPrefix(s, "POLYGON((") || !strings.HasSuffix(s, "))") {
		return nil, fmt.Errorf("not a polygon: %q", wkt)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "POLYGON(("), "))")

	pairs := strings.Split(s, ",")
	points := make([]geo.Point, 0, len(pairs))
	for _, pair := range pairs {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad vertex %q", pair)
		}
		lng, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		points = append(points, geo.Point{Lat: lat, Lng: lng})
	}
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	return points, nil
}
