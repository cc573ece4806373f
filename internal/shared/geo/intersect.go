package geo

// ccw reports whether walking a -> b -> c turns counter-clockwise, using
// longitude as x and latitude as y. A locally flat approximation, fine at the
// scale of a walked path.
func ccw(a, b, c Point) bool {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat)-(b.Lat-a.Lat)*(c.Lng-a.Lng) > 0
}

// SegmentsCross reports whether segment p1-p2 crosses segment p3-p4.
// The segments cross iff the endpoints of each straddle the line of the
// other.
func SegmentsCross(p1, p2, p3, p4 Point) bool {
	return ccw(p1, p3, p4) != ccw(p2, p3, p4) && ccw(p1, p2, p3) != ccw(p1, p2, p4)
}
