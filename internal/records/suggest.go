// internal/records/suggest.go
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultSuggestLimit = 8

// SuggestNames returns applicant names matching a partial query, for the
// search box autocomplete. Elasticsearch serves the lookup when available;
// otherwise it falls back to an ILIKE scan. Lookup trouble degrades to an
// empty list rather than failing the search box.
func (s *Store) SuggestNames(ctx context.Context, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []string{}
	}
	if limit < 1 {
		limit = defaultSuggestLimit
	}

	if s.es != nil {
		names, err := s.suggestFromES(ctx, query, limit)
		if err == nil {
			return names
		}
		s.log.WithError(err).Warn("elasticsearch suggestion failed, falling back to sql", map[string]interface{}{
			"query": query,
		})
	}

	names, err := s.suggestFromSQL(ctx, query, limit)
	if err != nil {
		s.log.WithError(err).Warn("sql suggestion failed", map[string]interface{}{
			"query": query,
		})
		return []string{}
	}
	return names
}

func (s *Store) suggestFromES(ctx context.Context, query string, limit int) ([]string, error) {
	body := map[string]interface{}{
		"size":    limit * 2,
		"_source": []string{"nome"},
		"query": map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{
				"nome": query,
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.esIndex),
		s.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Nome string `json:"nome"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	names := []string{}
	for _, hit := range parsed.Hits.Hits {
		name := hit.Source.Nome
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) >= limit {
			break
		}
	}
	return names, nil
}

func (s *Store) suggestFromSQL(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT nome FROM candidaturas WHERE nome ILIKE $1 ORDER BY nome LIMIT $2",
		"%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
