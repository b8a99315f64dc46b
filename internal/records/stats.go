// internal/records/stats.go
package records

import (
	"context"
	"sort"
	"time"

	"recruit-admin/internal/common/errors"
)

// KeyCount pairs an aggregation key with how many records carry it.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopStats summarizes the filtered record set by job, city and neighborhood.
type TopStats struct {
	Vagas   []KeyCount `json:"vagas"`
	Cidades []KeyCount `json:"cidades"`
	Bairros []KeyCount `json:"bairros"`
}

// EvolutionPoint is one day in the submissions-over-time series.
type EvolutionPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

const statsFetchLimit = 10000

// GetTopStats aggregates the filtered records into top-N rankings. Records
// with an empty key fall back to an em dash placeholder; empty bairros
// group under their city first.
func (s *Store) GetTopStats(ctx context.Context, filters ApplicantFilters) (*TopStats, error) {
	page, err := s.ListApplicants(ctx, filters, 1, statsFetchLimit)
	if err != nil {
		return nil, err
	}

	vagas := map[string]int{}
	cidades := map[string]int{}
	bairros := map[string]int{}
	for _, rec := range page.Records {
		vagas[orPlaceholder(rec.Vaga)]++
		cidades[orPlaceholder(rec.Cidade)]++
		bairros[orPlaceholder(joinBairro(rec.Bairro, rec.Cidade))]++
	}

	return &TopStats{
		Vagas:   topN(vagas, 10),
		Cidades: topN(cidades, 15),
		Bairros: topN(bairros, 10),
	}, nil
}

// joinBairro groups records without a neighborhood under their city.
func joinBairro(bairro, cidade string) string {
	if bairro == "" {
		return cidade
	}
	if cidade == "" {
		return bairro
	}
	return bairro + " - " + cidade
}

func orPlaceholder(key string) string {
	if key == "" {
		return "—"
	}
	return key
}

func topN(counts map[string]int, n int) []KeyCount {
	ranked := make([]KeyCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, KeyCount{Key: key, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// GetEvolution returns the daily submission counts over the filtered range
// as a zero-filled series. Without an explicit range it covers the last 30
// days ending today.
func (s *Store) GetEvolution(ctx context.Context, filters ApplicantFilters) ([]EvolutionPoint, error) {
	end := s.now().UTC()
	if filters.DataFim != nil {
		end = *filters.DataFim
	}
	start := end.AddDate(0, 0, -29)
	if filters.DataInicio != nil {
		start = *filters.DataInicio
	}
	if start.After(end) {
		return nil, errors.NewValidationError("date range", "start date is after end date")
	}

	page, err := s.ListApplicants(ctx, filters, 1, statsFetchLimit)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, rec := range page.Records {
		counts[rec.EnviadoEm.UTC().Format("2006-01-02")]++
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var series []EvolutionPoint
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		series = append(series, EvolutionPoint{Date: key, Count: counts[key]})
	}
	return series, nil
}
