package claim

import (
	"context"
	"errors"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

// Sink receives validated claims for persistence. Implemented by the
// territory store; the engine itself keeps nothing after handoff.
type Sink interface {
	Save(ctx context.Context, vc ValidatedClaim) (string, error)
}

type startRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type confirmResponse struct {
	Claim       ValidatedClaim `json:"claim"`
	TerritoryID string         `json:"territory_id,omitempty"`
}

func RegisterRoutes(r fiber.Router, mgr *Manager, sink Sink, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		playerID, _ := c.Locals("player_id").(string)
		if playerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "player required")
		}

		var req startRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		var origin *geo.Point
		if req.Lat != nil && req.Lng != nil {
			origin = &geo.Point{Lat: *req.Lat, Lng: *req.Lng}
		}

		st, err := mgr.Start(c.Context(), playerID, origin)
		if err != nil {
			return claimError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	})

	r.Post("/sessions/:id/samples", authMiddleware, func(c *fiber.Ctx) error {
		var sample Sample
		if err := c.BodyParser(&sample); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st, err := mgr.Ingest(c.Params("id"), sample)
		if err != nil {
			return claimError(c, err)
		}
		return c.JSON(st)
	})

	r.Get("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		st, err := mgr.Status(c.Params("id"))
		if err != nil {
			return claimError(c, err)
		}
		return c.JSON(st)
	})

	r.Post("/sessions/:id/confirm", authMiddleware, func(c *fiber.Ctx) error {
		vc, err := mgr.Confirm(c.Params("id"))
		if err != nil {
			return claimError(c, err)
		}

		resp := confirmResponse{Claim: vc}
		if sink != nil {
			id, err := sink.Save(c.Context(), vc)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			resp.TerritoryID = id
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	r.Post("/sessions/:id/tick", authMiddleware, func(c *fiber.Ctx) error {
		band, err := mgr.Tick(c.Context(), c.Params("id"))
		if err != nil {
			return claimError(c, err)
		}
		return c.JSON(fiber.Map{"collision_band": band})
	})

	r.Delete("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := mgr.Cancel(c.Params("id")); err != nil {
			return claimError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// claimError maps engine errors onto HTTP. Gameplay rejections are payload,
// not server errors.
func claimError(c *fiber.Ctx, err error) error {
	if rej, ok := AsRejection(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(rej)
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionActive),
		errors.Is(err, ErrSessionClosed),
		errors.Is(err, ErrSessionNotActive):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
