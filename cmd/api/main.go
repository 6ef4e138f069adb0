package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thermasense/thermasense/internal/config"
	"github.com/thermasense/thermasense/internal/database"
	httpHandlers "github.com/thermasense/thermasense/internal/http"
	"github.com/thermasense/thermasense/internal/iot"
	"github.com/thermasense/thermasense/internal/metrics"
	"github.com/thermasense/thermasense/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	// Heating-off commands are best effort; without a broker they are
	// skipped and only the DB flag changes.
	var controller service.HeatingController
	if publisher, err := iot.NewControlPublisher(config.MQTTBroker()); err != nil {
		log.Warn().Err(err).Msg("mqtt broker unavailable, control commands disabled")
	} else {
		controller = publisher
		defer publisher.Close()
	}

	svcs := service.New(db, controller, log.Logger)
	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	go func() {
		if err := metrics.Serve(config.MetricsAddr()); err != nil {
			log.Error().Err(err).Msg("metrics listener exit")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
