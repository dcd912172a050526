package validator_test

import (
	"staybook/shared/failure"
	"staybook/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stayRequest struct {
	PropertyID string `validate:"required" json:"property_id"`
	Email      string `validate:"omitempty,email" json:"email"`
	Guests     int    `validate:"gte=1,lte=16" json:"guests"`
	CheckIn    string `validate:"required,calendar_date" json:"check_in"`
	Status     string `validate:"omitempty,oneof=pending confirmed" json:"status"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *stayRequest
		expectError string
	}{
		{
			name: "valid struct",
			data: &stayRequest{PropertyID: "property-1", Guests: 2, CheckIn: "2025-01-15"},
		},
		{
			name: "RFC3339 check-in is accepted",
			data: &stayRequest{PropertyID: "property-1", Guests: 2, CheckIn: "2025-01-15T15:00:00Z"},
		},
		{
			name:        "missing required field",
			data:        &stayRequest{Guests: 2, CheckIn: "2025-01-15"},
			expectError: "PropertyID is required",
		},
		{
			name:        "invalid email",
			data:        &stayRequest{PropertyID: "property-1", Email: "nope", Guests: 2, CheckIn: "2025-01-15"},
			expectError: "Email must be a valid email address",
		},
		{
			name:        "too few guests",
			data:        &stayRequest{PropertyID: "property-1", Guests: 0, CheckIn: "2025-01-15"},
			expectError: "Guests must be greater than or equal to 1",
		},
		{
			name:        "malformed date",
			data:        &stayRequest{PropertyID: "property-1", Guests: 2, CheckIn: "15/01/2025"},
			expectError: "CheckIn must be a date formatted as YYYY-MM-DD",
		},
		{
			name:        "unknown status",
			data:        &stayRequest{PropertyID: "property-1", Guests: 2, CheckIn: "2025-01-15", Status: "archived"},
			expectError: "Status must be one of pending confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.expectError)
			assert.True(t, failure.IsInvalidArgument(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid calendar date", field: "2025-02-28", tag: "calendar_date"},
		{name: "impossible calendar date", field: "2025-02-30", tag: "calendar_date", expectError: true},
		{name: "valid number in range", field: 25, tag: "gte=0,lte=100"},
		{name: "number out of range", field: 150, tag: "gte=0,lte=100", expectError: true},
		{name: "valid uuid", field: "3f1c8a51-2f52-4f0c-9a3e-6a1c47e2f7d1", tag: "uuid"},
		{name: "invalid uuid", field: "booking-1", tag: "uuid", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"property_id":"property-1","guests":2,"check_in":"2025-01-15"}`,
		},
		{
			name:        "invalid field",
			jsonBody:    `{"property_id":"property-1","guests":0,"check_in":"2025-01-15"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"property_id":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data stayRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_EmptyBody(t *testing.T) {
	var data stayRequest

	err := validator.Validate(strings.NewReader(""), &data)

	assert.ErrorIs(t, err, failure.ErrEmptyRequest)
}
