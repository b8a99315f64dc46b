// internal/experience/derive_test.go
package experience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recruit-admin/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createPeriod(contractType models.ContractType, phase models.ExperiencePhase, start time.Time, days int) *models.ProbationPeriod {
	return &models.ProbationPeriod{
		ID:           "period-1",
		ApplicantID:  "cand-1",
		Nome:         "Maria Silva",
		Vaga:         "Atendente",
		Cidade:       "Arapiraca",
		ContractType: contractType,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, days),
		Phase:        phase,
		Status:       models.ExperienceActive,
		CreatedAt:    start,
	}
}

// ==========================
// Derived View Tests
// ==========================

func TestDerive_ProgressBounds(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := createPeriod(models.Contract40Days, models.PhaseFirst, start, 40)

	tests := []struct {
		name             string
		now              time.Time
		expectedProgress float64
		expectedStatus   models.ExperienceStatus
	}{
		{
			name:             "at start date progress is zero",
			now:              start,
			expectedProgress: 0,
			expectedStatus:   models.ExperienceActive,
		},
		{
			name:             "halfway through",
			now:              start.AddDate(0, 0, 20),
			expectedProgress: 50,
			expectedStatus:   models.ExperienceActive,
		},
		{
			name:             "at end date progress is capped at 100",
			now:              p.EndDate,
			expectedProgress: 100,
			expectedStatus:   models.ExperienceCompleted,
		},
		{
			name:             "past end date reads as expired",
			now:              p.EndDate.AddDate(0, 0, 3),
			expectedProgress: 100,
			expectedStatus:   models.ExperienceExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Derive(p, tt.now)
			assert.InDelta(t, tt.expectedProgress, view.Progress, 0.01)
			assert.Equal(t, tt.expectedStatus, view.DerivedStatus)
			// The persisted status never changes at read time.
			assert.Equal(t, models.ExperienceActive, view.Status)
		})
	}
}

func TestDerive_DayArithmetic(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := createPeriod(models.Contract40Days, models.PhaseFirst, start, 40)

	// Partway into a day still counts the whole day.
	view := Derive(p, start.Add(36*time.Hour))
	assert.Equal(t, 40, view.TotalDays)
	assert.Equal(t, 2, view.DaysPassed)
	assert.Equal(t, 39, view.DaysRemaining)
}

func TestDerive_CanRenew(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		phase    models.ExperiencePhase
		days     int
		now      time.Time
		expected bool
	}{
		{
			name:     "first phase inside window",
			phase:    models.PhaseFirst,
			days:     40,
			now:      start.AddDate(0, 0, 37),
			expected: true,
		},
		{
			name:     "first phase outside window",
			phase:    models.PhaseFirst,
			days:     40,
			now:      start.AddDate(0, 0, 30),
			expected: false,
		},
		{
			name:     "first phase already past end",
			phase:    models.PhaseFirst,
			days:     40,
			now:      start.AddDate(0, 0, 41),
			expected: false,
		},
		{
			name:     "second phase never renewable",
			phase:    models.PhaseSecond,
			days:     40,
			now:      start.AddDate(0, 0, 37),
			expected: false,
		},
		{
			name:     "single phase never renewable",
			phase:    models.PhaseSingle,
			days:     80,
			now:      start.AddDate(0, 0, 77),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createPeriod(models.Contract40Days, tt.phase, start, tt.days)
			view := Derive(p, tt.now)
			assert.Equal(t, tt.expected, view.CanRenew)
		})
	}
}

func TestDerive_ProgressZeroBeforeStart(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := createPeriod(models.Contract80Days, models.PhaseSingle, start, 80)

	view := Derive(p, start.AddDate(0, 0, -2))
	assert.Equal(t, 0.0, view.Progress)
	assert.False(t, view.CanRenew)
}
