package dto

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	FilterOperatorEq    = "eq"
	FilterOperatorNotEq = "not_eq"
	FilterOperatorIn    = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Record is implemented by models that can be filtered without a database.
type Record interface {
	FieldValue(field string) (any, bool)
}

type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq in"`
	Table    string
}

func (f *Filter) argName() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.argName()

	switch f.Operator {
	case FilterOperatorEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s = :%s", column, argName), args
	case FilterOperatorNotEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s != :%s", column, argName), args
	case FilterOperatorIn:
		values := f.values()
		named := make([]string, len(values))

		for idx, value := range values {
			args[fmt.Sprintf("%s_%d", argName, idx)] = value
			named[idx] = fmt.Sprintf(":%s_%d", argName, idx)
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
	default:
		return "", args
	}
}

// Match evaluates the filter against an in-memory record. Values are compared by their
// string form so typed string enums match plain strings.
func (f *Filter) Match(record Record) bool {
	value, ok := record.FieldValue(f.Field)
	if !ok {
		return false
	}

	actual := fmt.Sprint(value)

	switch f.Operator {
	case FilterOperatorEq:
		return actual == fmt.Sprint(f.Value)
	case FilterOperatorNotEq:
		return actual != fmt.Sprint(f.Value)
	case FilterOperatorIn:
		return slices.ContainsFunc(f.values(), func(v any) bool {
			return fmt.Sprint(v) == actual
		})
	default:
		return false
	}
}

func (f *Filter) values() []any {
	val := reflect.ValueOf(f.Value)

	switch val.Kind() {
	case reflect.Array, reflect.Slice:
		values := make([]any, val.Len())
		for idx := range val.Len() {
			values[idx] = val.Index(idx).Interface()
		}

		return values
	default:
		return []any{f.Value}
	}
}

type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) operator() string {
	if f.Operator == FilterGroupOperatorOr {
		return FilterGroupOperatorOr
	}

	return FilterGroupOperatorAnd
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		switch fill := filter.(type) {
		case Filter:
			where, arg := fill.GetWhereClause()
			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		case FilterGroup:
			where, arg := fill.GetWhereClause()
			if where == "" {
				continue
			}

			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		}
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+f.operator()+" ")), args
}

// Match reports whether record satisfies the group. An empty group matches everything.
func (f *FilterGroup) Match(record Record) bool {
	if len(f.Filters) == 0 {
		return true
	}

	or := f.operator() == FilterGroupOperatorOr

	for _, filter := range f.Filters {
		var matched bool

		switch fill := filter.(type) {
		case Filter:
			matched = fill.Match(record)
		case FilterGroup:
			matched = fill.Match(record)
		default:
			continue
		}

		if or && matched {
			return true
		}

		if !or && !matched {
			return false
		}
	}

	return !or
}
