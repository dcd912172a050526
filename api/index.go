package handler

import (
	"net/http"
	"staybook/config"
	"staybook/di"
	"staybook/shared/logger"
	"staybook/transport/http/response"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	app     http.Handler
	appOnce sync.Once
)

// Handler is the serverless entrypoint. The service graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	appOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		server, _, err := di.InitializeService()
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize service")

			return
		}

		app = server.Handler()
	})

	if app == nil {
		response.WithUnhealthy(w)

		return
	}

	app.ServeHTTP(w, r)
}
