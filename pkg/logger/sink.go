package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

// Sink receives batches of entries
type Sink interface {
	Write(ctx context.Context, entries []LogEntry) error
}

// WriterSink writes one JSON document per line
type WriterSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterSink(out io.Writer) *WriterSink {
	return &WriterSink{out: out}
}

func (s *WriterSink) Write(_ context.Context, entries []LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.out)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// ElasticsearchSink indexes entries with the bulk API
type ElasticsearchSink struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticsearchSink(es *elasticsearch.Client, index string) *ElasticsearchSink {
	return &ElasticsearchSink{es: es, index: index}
}

func (s *ElasticsearchSink) Write(ctx context.Context, entries []LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, e := range entries {
		meta := map[string]map[string]string{"index": {"_index": s.index, "_id": e.ID}}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return err
		}
		if err := json.NewEncoder(&buf).Encode(e); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{Body: &buf}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.String())
	}
	return nil
}
