package territory

import (
	"context"
	"time"

	"github.com/dufutao1/EarthLord-sub000/internal/claim"
	"github.com/dufutao1/EarthLord-sub000/internal/db"
	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

	"github.com/google/uuid"
)

// WarnDistanceM is the proximity band around foreign territories: a tracked
// point within this distance yields a "near" collision result.
const WarnDistanceM = 50.0

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Save persists a validated claim. Implements claim.Sink.
func (s *Service) Save(ctx context.Context, vc claim.ValidatedClaim) (string, error) {
	id := uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO territories (id, user_id, session_id, polygon, area_m2, point_count, length_m, claimed_at)
		VALUES ($1,$2,$3, ST_GeogFromText($4), $5, $6, $7, $8)
		RETURNING claimed_at
	`, id, vc.UserID, vc.SessionID, polygonWKT(vc.Polygon), vc.AreaM2, vc.PointCount, vc.LengthM, vc.ClosedAt)
	var claimedAt time.Time
	if err := row.Scan(&claimedAt); err != nil {
		return "", err
	}
	return id, nil
}

// ListByUser returns the player's own territories, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Territory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, session_id, ST_AsText(polygon::geometry), area_m2, point_count, length_m, claimed_at
		FROM territories WHERE user_id=$1
		ORDER BY claimed_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTerritories(rows)
}

// Nearby returns territories within radiusKm of the point, any owner.
func (s *Service) Nearby(ctx context.Context, p geo.Point, radiusKm float64) ([]Territory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, session_id, ST_AsText(polygon::geometry), area_m2, point_count, length_m, claimed_at
		FROM territories
		WHERE ST_DWithin(polygon, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY claimed_at DESC
	`, p.Lng, p.Lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTerritories(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTerritories(rows rowScanner) ([]Territory, error) {
	var out []Territory
	for rows.Next() {
		var t Territory
		var wkt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionID, &wkt, &t.AreaM2, &t.PointCount, &t.LengthM, &t.ClaimedAt); err != nil {
			return nil, err
		}
		pts, err := parsePolygonWKT(wkt)
		if err != nil {
			return nil, err
		}
		t.Polygon = pts
		out = append(out, t)
	}
	return out, rows.Err()
}

// CheckPoint classifies a single point against other players' territories.
// Implements half of claim.TerritoryOracle.
func (s *Service) CheckPoint(ctx context.Context, userID string, p geo.Point) (claim.CollisionResult, error) {
	var id string
	var dist float64
	err := s.db.QueryRow(ctx, `
		SELECT id, ST_Distance(polygon, ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography)
		FROM territories
		WHERE user_id <> $1
		  AND ST_DWithin(polygon, ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography, $4)
		ORDER BY 2
		LIMIT 1
	`, userID, p.Lng, p.Lat, WarnDistanceM).Scan(&id, &dist)
	if err != nil {
		if db.IsNoRows(err) {
			return claim.CollisionResult{Band: claim.BandNone}, nil
		}
		return claim.CollisionResult{}, err
	}
	if dist == 0 {
		return claim.CollisionResult{Band: claim.BandViolation, TerritoryID: id}, nil
	}
	return claim.CollisionResult{Band: claim.BandNear, TerritoryID: id, DistanceM: dist}, nil
}

// CheckPath classifies the tracked path: crossing a foreign polygon is a
// hard violation, passing inside the warning band is proximity feedback.
func (s *Service) CheckPath(ctx context.Context, userID string, path []geo.Point) (claim.CollisionResult, error) {
	if len(path) < 2 {
		if len(path) == 1 {
			return s.CheckPoint(ctx, userID, path[0])
		}
		return claim.CollisionResult{Band: claim.BandNone}, nil
	}

	line := lineWKT(path)
	var id string
	var dist float64
	var hit bool
	err := s.db.QueryRow(ctx, `
		SELECT id,
		       ST_Distance(polygon, ST_GeogFromText($2)),
		       ST_Intersects(polygon, ST_GeogFromText($2))
		FROM territories
		WHERE user_id <> $1
		  AND ST_DWithin(polygon, ST_GeogFromText($2), $3)
		ORDER BY 2
		LIMIT 1
	`, userID, line, WarnDistanceM).Scan(&id, &dist, &hit)
	if err != nil {
		if db.IsNoRows(err) {
			return claim.CollisionResult{Band: claim.BandNone}, nil
		}
		return claim.CollisionResult{}, err
	}
	if hit {
		return claim.CollisionResult{Band: claim.BandViolation, TerritoryID: id}, nil
	}
	return claim.CollisionResult{Band: claim.BandNear, TerritoryID: id, DistanceM: dist}, nil
}
