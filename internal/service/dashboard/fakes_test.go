package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
	"ticketpulse/internal/timewindow"
)

var testNow = time.Date(2025, 11, 24, 12, 0, 0, 0, time.UTC)

type fakeTickets struct {
	mu       sync.Mutex
	archived []dto.RawTicket
	done     []dto.RawTicket
	open     []dto.RawTicket
	fail     func(kind string, w timewindow.Window) error
	calls    int
}

func (f *fakeTickets) call(kind string, w timewindow.Window) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail(kind, w)
	}
	return nil
}

func (f *fakeTickets) FetchArchived(_ context.Context, w timewindow.Window, _ int) ([]dto.RawTicket, error) {
	if err := f.call("archived", w); err != nil {
		return nil, err
	}
	return f.archived, nil
}

func (f *fakeTickets) FetchDone(_ context.Context, w timewindow.Window, _ int) ([]dto.RawTicket, error) {
	if err := f.call("done", w); err != nil {
		return nil, err
	}
	return f.done, nil
}

func (f *fakeTickets) FetchOpen(_ context.Context, _ int) ([]dto.RawTicket, error) {
	if err := f.call("open", timewindow.Window{}); err != nil {
		return nil, err
	}
	return f.open, nil
}

func (f *fakeTickets) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStats struct {
	rows  func(w timewindow.Window) ([]dto.StatsItem, error)
	facts map[string]dto.StatsFact
	err   error
}

func (f *fakeStats) FetchTeamPerformance(_ context.Context, w timewindow.Window) ([]dto.StatsItem, error) {
	if f.rows == nil {
		return nil, f.err
	}
	return f.rows(w)
}

func (f *fakeStats) FetchFacts(_ context.Context, _ timewindow.Window, charts ...string) (map[string]dto.StatsFact, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]dto.StatsFact, len(charts))
	for _, c := range charts {
		out[c] = f.facts[c]
	}
	return out, nil
}

type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]entities.TicketSnapshot
	batches [][]entities.TicketSnapshot
	err     error
}

func (f *fakeStore) UpsertSnapshots(_ context.Context, rows []entities.TicketSnapshot) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[string]entities.TicketSnapshot)
	}
	f.batches = append(f.batches, rows)
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return int64(len(rows)), nil
}

func (f *fakeStore) ListSnapshots(_ context.Context) ([]entities.TicketSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.TicketSnapshot, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

type fakeIndex struct {
	indexed []entities.TicketSnapshot
}

func (f *fakeIndex) IndexSnapshots(_ context.Context, rows []entities.TicketSnapshot) (int, error) {
	f.indexed = append(f.indexed, rows...)
	return len(rows), nil
}

func (f *fakeIndex) SearchSnapshots(_ context.Context, params dto.SnapshotSearchParams) ([]entities.TicketSnapshot, dto.Pagination, error) {
	return f.indexed, dto.NewPagination(1, 50, int64(len(f.indexed))), nil
}

func newTestService(tickets TicketSource, stats StatsSource, opts ...func(*Options)) *Service {
	o := Options{Now: func() time.Time { return testNow }}
	for _, fn := range opts {
		fn(&o)
	}
	return New(tickets, stats, o)
}

func str(s string) *string { return &s }

func agent(email, first string) *dto.AgentRef {
	return &dto.AgentRef{Email: email, FirstName: first}
}

func archivedTicket(id, at string, who *dto.AgentRef) dto.RawTicket {
	return dto.RawTicket{ID: id, Archived: true, ArchivedAt: str(at), ProcessingUser: who}
}

func doneTicket(id, at string, who *dto.AgentRef) dto.RawTicket {
	return dto.RawTicket{ID: id, Status: "DONE", UpdatedAt: at, ProcessingUser: who}
}

func statsItems(t *testing.T, payload string) []dto.StatsItem {
	t.Helper()
	var items []dto.StatsItem
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	return items
}

func mustWindow(t *testing.T, start, end string) timewindow.Window {
	t.Helper()
	w, err := timewindow.ParseWindow(start, end)
	require.NoError(t, err)
	return w
}
