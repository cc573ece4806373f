package territory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dufutao1/EarthLord-sub000/internal/claim"
	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// MemoryOracle answers collision queries from an in-memory territory list
// using the local geometry primitives. It backs the claiming engine when no
// database is configured and doubles as the deterministic oracle in tests.
type MemoryOracle struct {
	mu          sync.RWMutex
	territories []Territory
}

func NewMemoryOracle(territories ...Territory) *MemoryOracle {
	return &MemoryOracle{territories: territories}
}

// Add registers another territory.
func (o *MemoryOracle) Add(t Territory) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.territories = append(o.territories, t)
}

// Save implements claim.Sink, turning a validated claim into a held
// territory so later sessions collide with it.
func (o *MemoryOracle) Save(_ context.Context, vc claim.ValidatedClaim) (string, error) {
	t := Territory{
		ID:         uuid.NewString(),
		UserID:     vc.UserID,
		SessionID:  vc.SessionID,
		Polygon:    vc.Polygon,
		AreaM2:     vc.AreaM2,
		PointCount: vc.PointCount,
		LengthM:    vc.LengthM,
		ClaimedAt:  time.Now(),
	}
	o.Add(t)
	return t.ID, nil
}

// CheckPoint implements claim.TerritoryOracle.
func (o *MemoryOracle) CheckPoint(_ context.Context, userID string, p geo.Point) (claim.CollisionResult, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	best := claim.CollisionResult{Band: claim.BandNone}
	for _, t := range o.territories {
		if t.UserID == userID {
			continue
		}
		if geo.PointInPolygon(p, t.Polygon) {
			return claim.CollisionResult{Band: claim.BandViolation, TerritoryID: t.ID}, nil
		}
		d := geo.DistanceToPolygonM(p, t.Polygon)
		if d <= WarnDistanceM && (best.Band == claim.BandNone || d < best.DistanceM) {
			best = claim.CollisionResult{Band: claim.BandNear, TerritoryID: t.ID, DistanceM: d}
		}
	}
	return best, nil
}

// CheckPath implements claim.TerritoryOracle.
func (o *MemoryOracle) CheckPath(_ context.Context, userID string, path []geo.Point) (claim.CollisionResult, error) {
	if len(path) == 1 {
		return o.CheckPoint(context.Background(), userID, path[0])
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	best := claim.CollisionResult{Band: claim.BandNone}
	for _, t := range o.territories {
		if t.UserID == userID {
			continue
		}
		if geo.PathIntersectsPolygon(path, t.Polygon) {
			return claim.CollisionResult{Band: claim.BandViolation, TerritoryID: t.ID}, nil
		}
		for _, p := range path {
			d := geo.DistanceToPolygonM(p, t.Polygon)
			if d <= WarnDistanceM && (best.Band == claim.BandNone || d < best.DistanceM) {
				best = claim.CollisionResult{Band: claim.BandNear, TerritoryID: t.ID, DistanceM: d}
			}
		}
	}
	return best, nil
}
