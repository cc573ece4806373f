package territory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/dufutao1/EarthLord-sub000/internal/claim"
	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

var errDB = errors.New("db error")

func testClaim() claim.ValidatedClaim {
	return claim.ValidatedClaim{
		SessionID:  "session-1",
		UserID:     "player-1",
		Polygon:    []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0.0002}, {Lat: 0.0002, Lng: 0.0002}, {Lat: 0.0002, Lng: 0}},
		AreaM2:     420,
		PointCount: 4,
		LengthM:    80,
		ClosedAt:   time.Now(),
	}
}

func TestSave(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	vc := testClaim()
	claimedAt := time.Now()

	mock.ExpectQuery(`INSERT INTO territories`).
		WithArgs(pgxmock.AnyArg(), vc.UserID, vc.SessionID, pgxmock.AnyArg(), vc.AreaM2, vc.PointCount, vc.LengthM, vc.ClosedAt).
		WillReturnRows(pgxmock.NewRows([]string{"claimed_at"}).AddRow(claimedAt))

	svc := NewService(mock)
	id, err := svc.Save(context.Background(), vc)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatalf("expected territory id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO territories`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errDB)

	svc := NewService(mock)
	if _, err := svc.Save(context.Background(), testClaim()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	claimedAt := time.Now()
	wkt := "POLYGON((0.00000000 0.00000000,0.00020000 0.00000000,0.00020000 0.00020000,0.00000000 0.00020000,0.00000000 0.00000000))"

	mock.ExpectQuery(`SELECT id, user_id, session_id`).
		WithArgs("player-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "st_astext", "area_m2", "point_count", "length_m", "claimed_at"}).
			AddRow("territory-1", "player-1", "session-1", wkt, 420.0, 4, 80.0, claimedAt))

	svc := NewService(mock)
	list, err := svc.ListByUser(context.Background(), "player-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one territory, got %d", len(list))
	}
	if len(list[0].Polygon) != 4 {
		t.Fatalf("expected closing vertex dropped, got %d points", len(list[0].Polygon))
	}
	if list[0].Polygon[1].Lng == 0 {
		t.Fatalf("expected lng parsed")
	}
}

func TestListByUserBadPolygon(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, session_id`).
		WithArgs("player-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "st_astext", "area_m2", "point_count", "length_m", "claimed_at"}).
			AddRow("territory-1", "player-1", "session-1", "LINESTRING(0 0,1 1)", 420.0, 4, 80.0, time.Now()))

	svc := NewService(mock)
	if _, err := svc.ListByUser(context.Background(), "player-1"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNearby(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	wkt := "POLYGON((0.00000000 0.00000000,0.00020000 0.00000000,0.00020000 0.00020000,0.00000000 0.00000000))"

	mock.ExpectQuery(`ST_DWithin`).
		WithArgs(10.0, 50.0, 2000.0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "st_astext", "area_m2", "point_count", "length_m", "claimed_at"}).
			AddRow("territory-2", "player-2", "session-2", wkt, 210.0, 3, 60.0, time.Now()))

	svc := NewService(mock)
	list, err := svc.Nearby(context.Background(), geo.Point{Lat: 50, Lng: 10}, 2)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(list) != 1 || list[0].ID != "territory-2" {
		t.Fatalf("unexpected result: %+v", list)
	}
}

func TestNearbyQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`ST_DWithin`).
		WithArgs(10.0, 50.0, 1000.0).
		WillReturnError(errDB)

	svc := NewService(mock)
	if _, err := svc.Nearby(context.Background(), geo.Point{Lat: 50, Lng: 10}, 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCheckPointBands(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)
	p := geo.Point{Lat: 50, Lng: 10}

	// inside a foreign polygon: distance zero
	mock.ExpectQuery(`SELECT id, ST_Distance`).
		WithArgs("player-1", p.Lng, p.Lat, WarnDistanceM).
		WillReturnRows(pgxmock.NewRows([]string{"id", "st_distance"}).AddRow("territory-1", 0.0))
	res, err := svc.CheckPoint(context.Background(), "player-1", p)
	if err != nil {
		t.Fatalf("check point: %v", err)
	}
	if res.Band != claim.BandViolation || res.TerritoryID != "territory-1" {
		t.Fatalf("expected violation, got %+v", res)
	}

	// within the warning band
	mock.ExpectQuery(`SELECT id, ST_Distance`).
		WithArgs("player-1", p.Lng, p.Lat, WarnDistanceM).
		WillReturnRows(pgxmock.NewRows([]string{"id", "st_distance"}).AddRow("territory-1", 12.5))
	res, err = svc.CheckPoint(context.Background(), "player-1", p)
	if err != nil {
		t.Fatalf("check point: %v", err)
	}
	if res.Band != claim.BandNear || res.DistanceM != 12.5 {
		t.Fatalf("expected near band, got %+v", res)
	}

	// nothing in range
	mock.ExpectQuery(`SELECT id, ST_Distance`).
		WithArgs("player-1", p.Lng, p.Lat, WarnDistanceM).
		WillReturnError(pgx.ErrNoRows)
	res, err = svc.CheckPoint(context.Background(), "player-1", p)
	if err != nil {
		t.Fatalf("check point: %v", err)
	}
	if res.Band != claim.BandNone {
		t.Fatalf("expected none, got %+v", res)
	}
}

func TestCheckPointQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, ST_Distance`).
		WithArgs("player-1", 10.0, 50.0, WarnDistanceM).
		WillReturnError(errDB)

	svc := NewService(mock)
	if _, err := svc.CheckPoint(context.Background(), "player-1", geo.Point{Lat: 50, Lng: 10}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCheckPathBands(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)
	path := []geo.Point{{Lat: 50, Lng: 10}, {Lat: 50.0001, Lng: 10}}

	mock.ExpectQuery(`ST_Intersects`).
		WithArgs("player-1", pgxmock.AnyArg(), WarnDistanceM).
		WillReturnRows(pgxmock.NewRows([]string{"id", "st_distance", "st_intersects"}).AddRow("territory-1", 0.0, true))
	res, err := svc.CheckPath(context.Background(), "player-1", path)
	if err != nil {
		t.Fatalf("check path: %v", err)
	}
	if res.Band != claim.BandViolation {
		t.Fatalf("expected violation, got %+v", res)
	}

	mock.ExpectQuery(`ST_Intersects`).
		WithArgs("player-1", pgxmock.AnyArg(), WarnDistanceM).
		WillReturnRows(pgxmock.NewRows([]string{"id", "st_distance", "st_intersects"}).AddRow("territory-1", 30.0, false))
	res, err = svc.CheckPath(context.Background(), "player-1", path)
	if err != nil {
		t.Fatalf("check path: %v", err)
	}
	if res.Band != claim.BandNear || res.DistanceM != 30 {
		t.Fatalf("expected near band, got %+v", res)
	}

	mock.ExpectQuery(`ST_Intersects`).
		WithArgs("player-1", pgxmock.AnyArg(), WarnDistanceM).
		WillReturnError(pgx.ErrNoRows)
	res, err = svc.CheckPath(context.Background(), "player-1", path)
	if err != nil {
		t.Fatalf("check path: %v", err)
	}
	if res.Band != claim.BandNone {
		t.Fatalf("expected none, got %+v", res)
	}
}

func TestCheckPathShortInputs(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)

	res, err := svc.CheckPath(context.Background(), "player-1", nil)
	if err != nil || res.Band != claim.BandNone {
		t.Fatalf("expected none for empty path")
	}

	// single point falls back to the point query
	mock.ExpectQuery(`SELECT id, ST_Distance`).
		WithArgs("player-1", 10.0, 50.0, WarnDistanceM).
		WillReturnError(pgx.ErrNoRows)
	res, err = svc.CheckPath(context.Background(), "player-1", []geo.Point{{Lat: 50, Lng: 10}})
	if err != nil || res.Band != claim.BandNone {
		t.Fatalf("expected none for single point")
	}
}
