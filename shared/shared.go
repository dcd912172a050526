package shared

import (
	"context"
	"staybook/shared/cache"
	"staybook/shared/constant"
	"staybook/shared/dto"
	"strings"

	"github.com/rs/zerolog/log"
)

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts with colons, skipping empty parts.
func BuildCacheKey(prefix string, parts ...string) string {
	key := []string{prefix}

	for _, part := range parts {
		if part == constant.Empty {
			continue
		}

		key = append(key, part)
	}

	return strings.Join(key, constant.Colon)
}

// InvalidateCaches clears every key under prefix. Failures are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if redisCache == nil {
		return
	}

	if err := redisCache.Clear(ctx, prefix+constant.Colon+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
