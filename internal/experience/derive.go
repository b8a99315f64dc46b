// internal/experience/derive.go
package experience

import (
	"math"
	"time"

	"recruit-admin/internal/models"
)

// View is a probation period plus the values derived from its dates at read
// time. Derived fields are never written back.
type View struct {
	models.ProbationPeriod

	TotalDays     int     `json:"total_days"`
	DaysPassed    int     `json:"days_passed"`
	DaysRemaining int     `json:"days_remaining"`
	Progress      float64 `json:"progress"`
	CanRenew      bool    `json:"can_renew"`

	// DerivedStatus is the effective status after date overrides; the
	// persisted Status field is left untouched.
	DerivedStatus models.ExperienceStatus `json:"derived_status"`
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// Derive computes the live view of a period at the given instant. A period
// past its end date reads as expired, one ending today as completed,
// regardless of what is stored.
func Derive(p *models.ProbationPeriod, now time.Time) View {
	totalDays := ceilDays(p.EndDate.Sub(p.StartDate))
	daysPassed := ceilDays(now.Sub(p.StartDate))
	daysRemaining := ceilDays(p.EndDate.Sub(now))

	status := p.Status
	switch {
	case daysRemaining < 0:
		status = models.ExperienceExpired
	case daysRemaining == 0:
		status = models.ExperienceCompleted
	}

	progress := 0.0
	if totalDays > 0 && daysPassed >= 0 {
		progress = float64(daysPassed) / float64(totalDays) * 100
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
	}

	canRenew := p.Phase == models.PhaseFirst &&
		daysRemaining >= 0 && daysRemaining <= renewWindowDays &&
		status != models.ExperienceCompleted

	return View{
		ProbationPeriod: *p,
		TotalDays:       totalDays,
		DaysPassed:      daysPassed,
		DaysRemaining:   daysRemaining,
		Progress:        progress,
		CanRenew:        canRenew,
		DerivedStatus:   status,
	}
}
