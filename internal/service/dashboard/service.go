// Package dashboard assembles the dashboard views: it plans the sub-windows
// of a request, fetches them in parallel, aggregates every batch and folds
// the partial results together.
package dashboard

import (
	"context"
	"strings"
	"time"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
	"ticketpulse/internal/timewindow"
)

// DefaultFanoutBatchSize bounds the sub-window fetches in flight per request
const DefaultFanoutBatchSize = 10

// TicketSource lists tickets from the helpdesk
type TicketSource interface {
	FetchArchived(ctx context.Context, w timewindow.Window, limit int) ([]dto.RawTicket, error)
	FetchDone(ctx context.Context, w timewindow.Window, limit int) ([]dto.RawTicket, error)
	FetchOpen(ctx context.Context, limit int) ([]dto.RawTicket, error)
}

// StatsSource reads the helpdesk statistics endpoints
type StatsSource interface {
	FetchTeamPerformance(ctx context.Context, w timewindow.Window) ([]dto.StatsItem, error)
	FetchFacts(ctx context.Context, w timewindow.Window, charts ...string) (map[string]dto.StatsFact, error)
}

// SnapshotStore persists open ticket snapshots
type SnapshotStore interface {
	UpsertSnapshots(ctx context.Context, rows []entities.TicketSnapshot) (int64, error)
	ListSnapshots(ctx context.Context) ([]entities.TicketSnapshot, error)
}

// SnapshotIndex makes snapshots searchable
type SnapshotIndex interface {
	IndexSnapshots(ctx context.Context, rows []entities.TicketSnapshot) (int, error)
	SearchSnapshots(ctx context.Context, params dto.SnapshotSearchParams) ([]entities.TicketSnapshot, dto.Pagination, error)
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	FanoutBatchSize int
	Planner         *timewindow.Planner
	// Roster restricts the shift view to these agents (emails or names)
	Roster    []string
	OpenLimit int
	Now       func() time.Time
}

// Service builds the dashboard views. It holds no per-request state.
type Service struct {
	tickets   TicketSource
	stats     StatsSource
	store     SnapshotStore
	index     SnapshotIndex
	planner   *timewindow.Planner
	batch     int
	roster    map[string]bool
	openLimit int
	now       func() time.Time
}

// New builds a service over the helpdesk sources
func New(tickets TicketSource, stats StatsSource, opts Options) *Service {
	s := &Service{
		tickets:   tickets,
		stats:     stats,
		planner:   opts.Planner,
		batch:     opts.FanoutBatchSize,
		openLimit: opts.OpenLimit,
		now:       opts.Now,
	}
	if s.batch <= 0 {
		s.batch = DefaultFanoutBatchSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.planner == nil {
		s.planner = timewindow.NewPlanner()
		s.planner.Now = s.now
	}
	if len(opts.Roster) > 0 {
		s.roster = make(map[string]bool, len(opts.Roster))
		for _, who := range opts.Roster {
			if who = strings.ToLower(strings.TrimSpace(who)); who != "" {
				s.roster[who] = true
			}
		}
	}
	return s
}

// WithSnapshots attaches the snapshot backends. Either may be nil.
func (s *Service) WithSnapshots(store SnapshotStore, index SnapshotIndex) *Service {
	s.store = store
	s.index = index
	return s
}

// Planner exposes the planner used for request windows
func (s *Service) Planner() *timewindow.Planner {
	return s.planner
}
