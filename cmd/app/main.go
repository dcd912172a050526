package main

import (
	"staybook/config"
	"staybook/di"
	"staybook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Staybook API
// @version 1.0
// @description Booking lifecycle, availability and stay quotes for short-term rentals.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	defer cleanup()

	http.Serve()
}
