package claim

import (
	"context"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// Band grades how close the current point or path is to someone else's
// territory.
type Band string

const (
	// BandNone: no conflict.
	BandNone Band = "none"
	// BandNear: inside the proximity warning band. User feedback only,
	// recording continues.
	BandNear Band = "near"
	// BandViolation: the point or path crosses an owned territory. The
	// session is terminated.
	BandViolation Band = "violation"
)

// CollisionResult is the oracle's classification of one check.
type CollisionResult struct {
	Band Band `json:"band"`
	// TerritoryID names the territory hit or neared, when known.
	TerritoryID string `json:"territory_id,omitempty"`
	// DistanceM is the distance to the nearest foreign territory for
	// proximity results.
	DistanceM float64 `json:"distance_m,omitempty"`
}

// TerritoryOracle answers whether a point or path conflicts with already
// recorded territories. The engine treats it as a pure query and never
// caches the other players' polygons. The player's own territories are not
// conflicts.
type TerritoryOracle interface {
	CheckPoint(ctx context.Context, userID string, p geo.Point) (CollisionResult, error)
	CheckPath(ctx context.Context, userID string, path []geo.Point) (CollisionResult, error)
}
