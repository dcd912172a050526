package dto_test

import (
	"staybook/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record map[string]any

func (r record) FieldValue(field string) (any, bool) {
	v, ok := r[field]

	return v, ok
}

type status string

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "guest_id", Value: "g-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.guest_id = :guest_id",
			wantArgs:  map[string]any{"guest_id": "g-1"},
		},
		{
			name:      "not eq with arg name",
			filter:    dto.Filter{ArgName: "st", Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status != :st",
			wantArgs:  map[string]any{"st": "cancelled"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "status", Value: "x", Operator: "like"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "property_id", Value: "p-1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(property_id = :property_id AND status != :status)", where)
	assert.Equal(t, map[string]any{"property_id": "p-1", "status": "cancelled"}, args)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}

func TestFilterGroup_Match(t *testing.T) {
	rec := record{"guest_id": "g-1", "status": status("confirmed")}

	tests := []struct {
		name  string
		group dto.FilterGroup
		want  bool
	}{
		{
			name:  "empty group matches",
			group: dto.FilterGroup{},
			want:  true,
		},
		{
			name: "eq on typed string",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
			}},
			want: true,
		},
		{
			name: "and with one miss",
			group: dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd, Filters: []any{
				dto.Filter{Field: "guest_id", Value: "g-1", Operator: dto.FilterOperatorEq},
				dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorNotEq},
			}},
			want: false,
		},
		{
			name: "or with one hit",
			group: dto.FilterGroup{Operator: dto.FilterGroupOperatorOr, Filters: []any{
				dto.Filter{Field: "guest_id", Value: "g-2", Operator: dto.FilterOperatorEq},
				dto.Filter{Field: "status", Value: []string{"active", "confirmed"}, Operator: dto.FilterOperatorIn},
			}},
			want: true,
		},
		{
			name: "unknown field never matches",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "host_id", Value: "h-1", Operator: dto.FilterOperatorEq},
			}},
			want: false,
		},
		{
			name: "nested group",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "guest_id", Value: "g-1", Operator: dto.FilterOperatorEq},
				dto.FilterGroup{Operator: dto.FilterGroupOperatorOr, Filters: []any{
					dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
				}},
			}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.group.Match(rec))
		})
	}
}
