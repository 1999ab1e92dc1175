package sqlserver

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"ticketpulse/internal/models/entities"
)

const upsertBatchSize = 200

// UpsertSnapshots inserts rows, overwriting every column of rows whose id
// already exists. It returns the number of rows written.
func (s *Internal) UpsertSnapshots(ctx context.Context, rows []entities.TicketSnapshot) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(&rows, upsertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("upserting %d snapshots: %w", len(rows), res.Error)
	}
	return res.RowsAffected, nil
}

// ListSnapshots returns every stored snapshot, busiest agents first
func (s *Internal) ListSnapshots(ctx context.Context) ([]entities.TicketSnapshot, error) {
	var rows []entities.TicketSnapshot
	err := s.db.WithContext(ctx).
		Order("agent_open_ticket DESC").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return rows, nil
}
