package elsearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
)

// ErrNotConfigured is returned when no cluster address is set
var ErrNotConfigured = errors.New("elasticsearch: ELASTICSEARCH_URL is not set")

// DefaultSnapshotIndex holds the searchable copy of the open ticket snapshots
const DefaultSnapshotIndex = "ticketpulse-open-tickets"

// Config - cluster address, credentials and transport knobs. Empty fields
// are read from ELASTICSEARCH_URL, ELASTICSEARCH_USERNAME,
// ELASTICSEARCH_PASSWORD and ELASTICSEARCH_SNAPSHOT_INDEX.
type Config struct {
	Addresses []string
	Username  string
	Password  string

	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration
	Debug        bool

	InsecureSkipVerify bool

	IndexName string
}

// Client wraps the low level client with the snapshot index it owns
type Client struct {
	ES     *elasticsearch.Client
	config *Config
}

func (cfg *Config) fillFromEnv() error {
	if len(cfg.Addresses) == 0 {
		url := os.Getenv("ELASTICSEARCH_URL")
		if url == "" {
			return ErrNotConfigured
		}
		cfg.Addresses = []string{url}
	}
	if cfg.Username == "" {
		cfg.Username = os.Getenv("ELASTICSEARCH_USERNAME")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("ELASTICSEARCH_PASSWORD")
	}
	if cfg.IndexName == "" {
		cfg.IndexName = os.Getenv("ELASTICSEARCH_SNAPSHOT_INDEX")
	}

	if cfg.IndexName == "" {
		cfg.IndexName = DefaultSnapshotIndex
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return nil
}

// NewClient connects to the cluster and pings it once
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.fillFromEnv(); err != nil {
		return nil, err
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff: func(attempt int) time.Duration {
			return cfg.RetryBackoff * time.Duration(attempt)
		},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: cfg.Timeout,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
		EnableDebugLogger: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	client := &Client{ES: es, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}

	return client, nil
}

// NewFromES wraps an existing low level client without pinging it
func NewFromES(es *elasticsearch.Client, indexName string) *Client {
	if indexName == "" {
		indexName = DefaultSnapshotIndex
	}
	return &Client{ES: es, config: &Config{IndexName: indexName}}
}

// IndexName is the snapshot index
func (c *Client) IndexName() string {
	return c.config.IndexName
}

// Ping reports whether the cluster answers
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer drain(res.Body)

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed with status: %s", res.Status())
	}
	return nil
}

// CreateIndex creates indexName with the given mapping
func (c *Client) CreateIndex(ctx context.Context, indexName string, mapping []byte) error {
	res, err := c.ES.Indices.Create(
		indexName,
		c.ES.Indices.Create.WithContext(ctx),
		c.ES.Indices.Create.WithBody(bytes.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", indexName, err)
	}
	defer drain(res.Body)

	if res.IsError() {
		return fmt.Errorf("failed to create index %s: %s", indexName, res.String())
	}
	return nil
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, indexName string) (bool, error) {
	res, err := c.ES.Indices.Exists([]string{indexName}, c.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, err
	}
	defer drain(res.Body)

	return res.StatusCode == http.StatusOK, nil
}

// drain empties and closes a response body so the connection is reused
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
