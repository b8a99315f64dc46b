// internal/records/store.go
package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/models"
)

// HiredHook runs when an applicant transitions to the hired status. The
// probation engine registers itself here.
type HiredHook func(ctx context.Context, rec *models.ApplicantRecord) error

// StatusChangeHook observes every status transition, best-effort. The
// notifier registers itself here.
type StatusChangeHook func(ctx context.Context, rec *models.ApplicantRecord, previous string)

// Deps are the external collaborators of the record layer. Cache and ES are
// optional; the layer degrades to SQL-only behavior without them.
type Deps struct {
	DB      *sql.DB
	Cache   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string

	// StatusFetch loads the selectable status list from the REST API.
	StatusFetch func(ctx context.Context) ([]string, error)
	StatusTTL   time.Duration
}

// Store provides typed read/write operations over applicant records,
// comments, status history and filter presets.
type Store struct {
	db          *sql.DB
	cache       *redis.Client
	es          *elasticsearch.Client
	esIndex     string
	statusFetch func(ctx context.Context) ([]string, error)
	statusTTL   time.Duration

	onHired        HiredHook
	onStatusChange StatusChangeHook

	log logger.Logger
	now func() time.Time
}

func NewStore(deps Deps, log logger.Logger) *Store {
	ttl := deps.StatusTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		db:          deps.DB,
		cache:       deps.Cache,
		es:          deps.ES,
		esIndex:     deps.ESIndex,
		statusFetch: deps.StatusFetch,
		statusTTL:   ttl,
		log:         log.WithFields(map[string]interface{}{"component": "records"}),
		now:         time.Now,
	}
}

// SetHiredHook wires the probation engine into status updates.
func (s *Store) SetHiredHook(hook HiredHook) {
	s.onHired = hook
}

// SetStatusChangeHook wires a best-effort observer of status transitions.
func (s *Store) SetStatusChangeHook(hook StatusChangeHook) {
	s.onStatusChange = hook
}
