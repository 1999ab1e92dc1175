package elsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9/esapi"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// EnsureSnapshotIndex creates the snapshot index with its mapping when missing
func (es *Client) EnsureSnapshotIndex(ctx context.Context) error {
	ok, err := es.IndexExists(ctx, es.config.IndexName)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return es.CreateIndex(ctx, es.config.IndexName, snapshotMapping)
}

// IndexSnapshots stores rows with the bulk API, one document per ticket id.
// It returns how many documents were accepted.
func (es *Client) IndexSnapshots(ctx context.Context, rows []entities.TicketSnapshot) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		meta := map[string]map[string]string{"index": {"_index": es.config.IndexName, "_id": row.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(row); err != nil {
			return 0, err
		}
	}

	req := esapi.BulkRequest{Body: &buf}
	res, err := req.Do(ctx, es.ES)
	if err != nil {
		return 0, fmt.Errorf("bulk indexing snapshots: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("bulk indexing snapshots: %s - %s", res.Status(), string(body))
	}

	var bulk struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return 0, fmt.Errorf("decoding bulk response: %w", err)
	}
	if !bulk.Errors {
		return len(rows), nil
	}

	accepted := 0
	for _, item := range bulk.Items {
		for _, r := range item {
			if r.Status >= 200 && r.Status < 300 {
				accepted++
			}
		}
	}
	return accepted, nil
}

// SearchSnapshots returns one page of snapshots matching params
func (es *Client) SearchSnapshots(ctx context.Context, params dto.SnapshotSearchParams) ([]entities.TicketSnapshot, dto.Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}
	from := (params.Page - 1) * params.PageSize

	queryJSON, err := json.Marshal(buildSnapshotQuery(params, from, params.PageSize))
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("encoding search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{es.config.IndexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, es.ES)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("searching snapshots: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("reading search response: %w", err)
	}
	if res.IsError() {
		return nil, dto.Pagination{}, fmt.Errorf("searching snapshots: %s - %s", res.Status(), string(body))
	}

	var esResponse dto.ESResponse
	if err := json.Unmarshal(body, &esResponse); err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("decoding search response: %w", err)
	}

	rows := make([]entities.TicketSnapshot, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		var row entities.TicketSnapshot
		if err := json.Unmarshal(hit.Source, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}

	return rows, dto.NewPagination(params.Page, params.PageSize, esResponse.Hits.Total.Value), nil
}
