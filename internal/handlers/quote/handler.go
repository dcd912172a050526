package quote

import (
	"net/http"
	"staybook/infras/otel"
	"staybook/internal/domains/quote/model/dto"
	"staybook/internal/domains/quote/service"
	"staybook/shared/constant"
	"staybook/shared/validator"
	"staybook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Quote
	otel    otel.Otel
}

func New(service service.Quote, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/quotes", handler.CreateQuote)
}

// CreateQuote prices a stay.
// @Summary Quote a stay
// @Description Subtotal, service fee, taxes and total for a stay, with the weekly and monthly discounts it would qualify for.
// @Tags Quote
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} dto.QuoteResponse "Stay quote"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotes [post]
func (handler *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateQuote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.Calculate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to calculate quote")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}
