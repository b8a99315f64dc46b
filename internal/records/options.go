// internal/records/options.go
package records

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"recruit-admin/internal/common/errors"
)

const statusOptionsKey = "recruit:status_options"

// FilterOptions holds the distinct values available for dropdown filters.
type FilterOptions struct {
	Vagas   []string `json:"vagas"`
	Cidades []string `json:"cidades"`
	Status  []string `json:"status"`
}

// GetFilterOptions collects the distinct non-empty values of the filterable
// columns, each list sorted ascending.
func (s *Store) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{}
	columns := []struct {
		name string
		dst  *[]string
	}{
		{"vaga", &opts.Vagas},
		{"cidade", &opts.Cidades},
		{"status", &opts.Status},
	}
	for _, col := range columns {
		values, err := s.distinctColumn(ctx, col.name)
		if err != nil {
			return nil, err
		}
		*col.dst = values
	}
	return opts, nil
}

func (s *Store) distinctColumn(ctx context.Context, column string) ([]string, error) {
	// column comes from a fixed list above, never from user input.
	query := "SELECT DISTINCT " + column + " FROM candidaturas WHERE " + column + " IS NOT NULL AND " + column + " <> '' ORDER BY " + column
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStorageError("filter options", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.NewStorageError("scan filter option", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// StatusOptions returns the selectable status list from the REST API,
// cached for a few minutes so repeated dropdown loads stay cheap. Cache
// failures degrade to a direct fetch.
func (s *Store) StatusOptions(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statusOptionsKey).Result()
		if err == nil {
			var options []string
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		} else if err != redis.Nil {
			s.log.WithError(err).Warn("status options cache read failed", nil)
		}
	}

	if s.statusFetch == nil {
		return []string{}, nil
	}
	options, err := s.statusFetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(options); err == nil {
			if err := s.cache.Set(ctx, statusOptionsKey, payload, s.statusTTL).Err(); err != nil {
				s.log.WithError(err).Warn("status options cache write failed", nil)
			}
		}
	}
	return options, nil
}

// InvalidateStatusOptions drops the cached status list, forcing the next
// read through to the API.
func (s *Store) InvalidateStatusOptions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statusOptionsKey).Err(); err != nil {
		s.log.WithError(err).Warn("status options cache invalidation failed", nil)
	}
}
