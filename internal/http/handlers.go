package http

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/thermasense/thermasense/internal/recommend"
	"github.com/thermasense/thermasense/internal/service"
	"github.com/thermasense/thermasense/internal/thermal"
)

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/")

	g.Get("rooms", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListRooms()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})

	g.Post("rooms/:id/toggle-heating", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
		}
		room, err := svcs.Rooms.ToggleHeating(int64(id))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "success", "heating_status": room.HeatingStatus})
	})

	g.Get("rooms/:id/thermal-analysis", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid room id"})
		}
		room, err := svcs.Repos.GetRoom(int64(id))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "room not found"})
		}
		wx := svcs.Weather.Current()
		cooldown, err := thermal.CooldownMinutes(
			room.Area, room.HeatLossFactor(), room.CurrentTemperature(),
			room.ComfortTemperature, wx.Temperature)
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		out := fiber.Map{
			"room_id":             room.ID,
			"current_temperature": room.CurrentTemperature(),
			"outside_temperature": wx.Temperature,
		}
		// +Inf is not representable in JSON; report it explicitly.
		if math.IsInf(cooldown, 1) {
			out["cooldown_time_minutes"] = nil
			out["never_cools_below_comfort"] = true
		} else {
			out["cooldown_time_minutes"] = cooldown
		}
		return c.JSON(out)
	})

	g.Get("weather/current", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Weather.Current())
	})

	g.Post("recommendations/generate", func(c *fiber.Ctx) error {
		recs, err := svcs.Generator.Generate()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(recs)
	})

	g.Get("recommendations/active", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListRecommendations(false, true)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})

	g.Get("recommendations/applied", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListRecommendations(true, false)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})

	g.Post("recommendations/:id/apply", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid recommendation id"})
		}
		rec, err := svcs.ApplyRecommendation(int64(id))
		if errors.Is(err, recommend.ErrAlreadyApplied) {
			return c.Status(409).JSON(fiber.Map{"error": "recommendation already applied"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "success", "recommendation": rec})
	})

	g.Get("ledger", func(c *fiber.Ctx) error {
		if err := svcs.Ledger.Verify(); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(svcs.Ledger.Entries())
	})

	g.Get("dashboard", func(c *fiber.Ctx) error {
		rooms, err := svcs.Repos.ListRooms()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		heated := 0
		for _, r := range rooms {
			if r.HeatingStatus {
				heated++
			}
		}
		active, err := svcs.Repos.ListRecommendations(false, true)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		totalSavings := 0.0
		for _, rec := range active {
			totalSavings += rec.EstimatedSavings
		}
		wx := svcs.Weather.Current()
		return c.JSON(fiber.Map{
			"total_rooms":           len(rooms),
			"heated_rooms":          heated,
			"weather":               wx,
			"recommendations_count": len(active),
			"total_savings_kwh":     totalSavings,
			"total_co2_saved_kg":    totalSavings * 0.4,
		})
	})
}
