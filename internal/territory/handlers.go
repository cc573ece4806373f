package territory

import (
	"strconv"

	"github.com/dufutao1/EarthLord-sub000/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/mine", authMiddleware, func(c *fiber.Ctx) error {
		playerID, _ := c.Locals("player_id").(string)
		if playerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "player required")
		}
		list, err := svc.ListByUser(c.Context(), playerID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat required")
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lng required")
		}
		radiusKm := 1.0
		if q := c.Query("radius_km"); q != "" {
			if radiusKm, err = strconv.ParseFloat(q, 64); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "bad radius_km")
			}
		}

		list, err := svc.Nearby(c.Context(), geo.Point{Lat: lat, Lng: lng}, radiusKm)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})
}
