//go:build wireinject
// +build wireinject

package di

import (
	"staybook/config"
	"staybook/infras/otel"
	"staybook/transport/http"
	"staybook/transport/http/middleware"
	"staybook/transport/http/router"

	bookingService "staybook/internal/domains/booking/service"
	bookingHandler "staybook/internal/handlers/booking"

	quoteService "staybook/internal/domains/quote/service"
	quoteHandler "staybook/internal/handlers/quote"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	ProvideRedisClient,
	ProvideNotifier,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	ProvideCache,
	ProvideLocker,
)

var bookingDomain = wire.NewSet(
	ProvideBookingRepository,
	bookingService.New,
)

var quoteDomain = wire.NewSet(
	quoteService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	quoteDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	quoteHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil, nil
}
