package sqlserver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ticketpulse/internal/models/entities"
)

// ErrNotConfigured is returned when no SQL Server host is set
var ErrNotConfigured = errors.New("sqlserver: SQLSERVER_HOST is not set")

// Internal wraps the gorm connection of the snapshot database
type Internal struct {
	db *gorm.DB
}

// DSN builds the connection string from the SQLSERVER_* variables
func DSN() (string, error) {
	host := os.Getenv("SQLSERVER_HOST")
	if host == "" {
		return "", ErrNotConfigured
	}
	port := os.Getenv("SQLSERVER_PORT")
	if port == "" {
		port = "1433"
	}

	q := url.Values{}
	if db := os.Getenv("SQLSERVER_DATABASE"); db != "" {
		q.Set("database", db)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(os.Getenv("SQLSERVER_USERNAME"), os.Getenv("SQLSERVER_PASSWORD")),
		Host:     host + ":" + port,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// NewSQLServerInternal opens the snapshot database, checks it answers and
// migrates the snapshot table unless SQLSERVER_AUTOMIGRATE is "false"
func NewSQLServerInternal(ctx context.Context) (*Internal, error) {
	dsn, err := DSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlserver: %w", err)
	}

	s := &Internal{db: db}
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}

	if os.Getenv("SQLSERVER_AUTOMIGRATE") != "false" {
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewFromDB wraps an already opened gorm handle
func NewFromDB(db *gorm.DB) *Internal {
	return &Internal{db: db}
}

// Migrate creates or updates the snapshot table
func (s *Internal) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&entities.TicketSnapshot{}); err != nil {
		return fmt.Errorf("migrating snapshots: %w", err)
	}
	return nil
}

// Ping checks the database answers
func (s *Internal) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlserver: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Internal) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
