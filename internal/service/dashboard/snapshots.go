package dashboard

import (
	"context"
	"fmt"
	"time"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
)

// Upsert stores rows, overwriting existing rows with the same id
func (s *Service) Upsert(ctx context.Context, rows []dto.OpenTicketRow) (*dto.UpsertResult, error) {
	if s.store == nil {
		return nil, &apperr.UnavailableError{Component: "snapshot store"}
	}
	for i, r := range rows {
		if r.ID == "" {
			return nil, apperr.Validation(fmt.Sprintf("rows[%d].id", i), "id is required")
		}
	}

	written, err := s.store.UpsertSnapshots(ctx, toSnapshots(rows, s.now()))
	if err != nil {
		return nil, err
	}
	return &dto.UpsertResult{RowsWritten: written}, nil
}

// RefreshSnapshots reads the open tickets and writes them to the store and,
// when configured, to the search index
func (s *Service) RefreshSnapshots(ctx context.Context) (*dto.RefreshResult, error) {
	if s.store == nil {
		return nil, &apperr.UnavailableError{Component: "snapshot store"}
	}
	view, err := s.OpenTickets(ctx)
	if err != nil {
		return nil, err
	}

	snaps := toSnapshots(view.Tickets, s.now())
	written, err := s.store.UpsertSnapshots(ctx, snaps)
	if err != nil {
		return nil, err
	}

	out := &dto.RefreshResult{Fetched: len(snaps), RowsWritten: written}
	if s.index != nil {
		indexed, err := s.index.IndexSnapshots(ctx, snaps)
		if err != nil {
			return nil, fmt.Errorf("indexing snapshots: %w", err)
		}
		out.Indexed = indexed
	}
	return out, nil
}

// Agents lists the stored snapshots, busiest agents first
func (s *Service) Agents(ctx context.Context) ([]entities.TicketSnapshot, error) {
	if s.store == nil {
		return nil, &apperr.UnavailableError{Component: "snapshot store"}
	}
	return s.store.ListSnapshots(ctx)
}

// SearchSnapshots runs a full text search over the indexed snapshots
func (s *Service) SearchSnapshots(ctx context.Context, params dto.SnapshotSearchParams) ([]entities.TicketSnapshot, dto.Pagination, error) {
	if s.index == nil {
		return nil, dto.Pagination{}, &apperr.UnavailableError{Component: "snapshot index"}
	}
	return s.index.SearchSnapshots(ctx, params)
}

// toSnapshots converts rows to entities. A repeated id keeps the position of
// its first row and the values of its last; a batch never carries the same
// key twice.
func toSnapshots(rows []dto.OpenTicketRow, now time.Time) []entities.TicketSnapshot {
	refreshed := now.UTC()
	out := make([]entities.TicketSnapshot, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		snap := entities.TicketSnapshot{
			ID:                     r.ID,
			TicketID:               r.TicketID,
			AgentName:              r.AgentName,
			AgentEmail:             r.AgentEmail,
			AgentOpenTicket:        r.AgentOpenTicket,
			TicketStatus:           r.TicketStatus,
			TicketType:             r.TicketType,
			Priority:               r.Priority,
			SlaBreached:            r.SlaBreached,
			HasAgentReply:          r.HasAgentReply,
			TimeOpenDuration:       r.TimeOpenDuration,
			Tags:                   r.Tags,
			TicketUpdatedAt:        r.UpdatedAt,
			LatestCommentCreatedAt: r.LatestCommentCreatedAt,
			PlanType:               r.PlanType,
			UserName:               r.UserName,
			UserEmail:              r.UserEmail,
			RefreshedAt:            refreshed,
		}
		if i, ok := seen[r.ID]; ok {
			out[i] = snap
			continue
		}
		seen[r.ID] = len(out)
		out = append(out, snap)
	}
	return out
}
