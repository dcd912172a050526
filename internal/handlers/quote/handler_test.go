package quote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"staybook/infras/otel/mocks"
	"staybook/internal/domains/quote/model/dto"
	serviceMocks "staybook/internal/domains/quote/service/mocks"
	"staybook/internal/handlers/quote"
	"staybook/shared/failure"
	"staybook/shared/price"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHandler_CreateQuote(t *testing.T) {
	validBody := `{"price_per_night":100,"check_in":"2025-01-15","check_out":"2025-01-18","guests":2}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *serviceMocks.MockQuote)
		wantStatus int
	}{
		{
			name: "quoted",
			body: validBody,
			setupMock: func(m *serviceMocks.MockQuote) {
				m.EXPECT().
					Calculate(gomock.Any(), dto.QuoteRequest{PricePerNight: 100, CheckIn: "2025-01-15", CheckOut: "2025-01-18", Guests: 2}).
					Return(dto.QuoteResponse{Nights: 3, Quote: price.Quote{Subtotal: 300, ServiceFee: 30, Taxes: 24, Total: 354}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid body",
			body:       `{"price_per_night":0}`,
			setupMock:  func(_ *serviceMocks.MockQuote) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "stay rejected",
			body: validBody,
			setupMock: func(m *serviceMocks.MockQuote) {
				m.EXPECT().
					Calculate(gomock.Any(), gomock.Any()).
					Return(dto.QuoteResponse{}, failure.InvalidArgument("check-out must be after check-in"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := serviceMocks.NewMockQuote(ctrl)
			tt.setupMock(mockService)

			handler := quote.New(mockService, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var envelope struct {
				Data dto.QuoteResponse `json:"data"`
			}

			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, int64(354), envelope.Data.Quote.Total)
		})
	}
}
