// Package dashboardtest provides in-memory sources and an App wired to
// them for handler tests.
package dashboardtest

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"ticketpulse/internal/config"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
	"ticketpulse/internal/service/dashboard"
	"ticketpulse/internal/timewindow"
	"ticketpulse/pkg/logger"
)

// Now is the fixed clock of every App built here: 17:30 local time
var Now = time.Date(2025, 11, 24, 12, 0, 0, 0, time.UTC)

// Tickets serves fixed ticket lists
type Tickets struct {
	Archived []dto.RawTicket
	Done     []dto.RawTicket
	Open     []dto.RawTicket
	Err      error
}

func (t *Tickets) FetchArchived(context.Context, timewindow.Window, int) ([]dto.RawTicket, error) {
	return t.Archived, t.Err
}

func (t *Tickets) FetchDone(context.Context, timewindow.Window, int) ([]dto.RawTicket, error) {
	return t.Done, t.Err
}

func (t *Tickets) FetchOpen(context.Context, int) ([]dto.RawTicket, error) {
	return t.Open, t.Err
}

// Stats serves fixed statistics rows and facts
type Stats struct {
	Items []dto.StatsItem
	Facts map[string]dto.StatsFact
	Err   error
}

func (s *Stats) FetchTeamPerformance(context.Context, timewindow.Window) ([]dto.StatsItem, error) {
	return s.Items, s.Err
}

func (s *Stats) FetchFacts(_ context.Context, _ timewindow.Window, charts ...string) (map[string]dto.StatsFact, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]dto.StatsFact, len(charts))
	for _, c := range charts {
		out[c] = s.Facts[c]
	}
	return out, nil
}

// Store keeps snapshots in a map keyed by id
type Store struct {
	mu   sync.Mutex
	Rows map[string]entities.TicketSnapshot
}

func (s *Store) UpsertSnapshots(_ context.Context, rows []entities.TicketSnapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Rows == nil {
		s.Rows = make(map[string]entities.TicketSnapshot)
	}
	for _, r := range rows {
		s.Rows[r.ID] = r
	}
	return int64(len(rows)), nil
}

func (s *Store) ListSnapshots(context.Context) ([]entities.TicketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.TicketSnapshot, 0, len(s.Rows))
	for _, r := range s.Rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AgentOpenTicket != out[j].AgentOpenTicket {
			return out[i].AgentOpenTicket > out[j].AgentOpenTicket
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Index records what was indexed and returns it from every search
type Index struct {
	mu      sync.Mutex
	Indexed []entities.TicketSnapshot
	Params  []dto.SnapshotSearchParams
}

func (x *Index) IndexSnapshots(_ context.Context, rows []entities.TicketSnapshot) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Indexed = append(x.Indexed, rows...)
	return len(rows), nil
}

func (x *Index) SearchSnapshots(_ context.Context, params dto.SnapshotSearchParams) ([]entities.TicketSnapshot, dto.Pagination, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Params = append(x.Params, params)
	page := params.Page
	if page < 1 {
		page = 1
	}
	return x.Indexed, dto.NewPagination(page, 50, int64(len(x.Indexed))), nil
}

// Option adjusts the App built by NewApp
type Option func(*options)

type options struct {
	store dashboard.SnapshotStore
	index dashboard.SnapshotIndex
}

// WithStore attaches a snapshot store
func WithStore(s dashboard.SnapshotStore) Option {
	return func(o *options) { o.store = s }
}

// WithIndex attaches a snapshot index
func WithIndex(x dashboard.SnapshotIndex) Option {
	return func(o *options) { o.index = x }
}

// NewApp wires a dashboard over tickets and stats into an App whose logger
// discards its output
func NewApp(t testing.TB, tickets dashboard.TicketSource, stats dashboard.StatsSource, opts ...Option) *config.App {
	t.Helper()
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	log := logger.NewLogger(nil, logger.Config{Output: io.Discard})
	t.Cleanup(func() { _ = log.Close() })

	svc := dashboard.New(tickets, stats, dashboard.Options{Now: func() time.Time { return Now }})
	return &config.App{
		Logger:    log,
		Dashboard: svc.WithSnapshots(o.store, o.index),
		StartedAt: Now,
	}
}
