package territory

import (
	"time"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"
)

// Territory is a player's recorded claim polygon.
type Territory struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	SessionID  string      `json:"session_id"`
	Polygon    []geo.Point `json:"polygon"`
	AreaM2     float64     `json:"area_m2"`
	PointCount int         `json:"point_count"`
	LengthM    float64     `json:"length_m"`
	ClaimedAt  time.Time   `json:"claimed_at"`
}
