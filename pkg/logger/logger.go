// Package logger provides an asynchronous, batched structured logger that
// ships JSON entries to Elasticsearch, or to a writer when no cluster is
// configured.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
	LevelFatal LogLevel = "FATAL"
)

var levelRank = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
	LevelFatal: 4,
}

// LogEntry is one log record
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"@timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Logger    string    `json:"logger"`

	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Hostname    string `json:"hostname"`
	PID         int    `json:"pid"`
	ExecID      string `json:"exec_id"`

	Caller struct {
		File     string `json:"file"`
		Line     int    `json:"line"`
		Function string `json:"function"`
	} `json:"caller"`

	HTTP        *HTTPContext           `json:"http,omitempty"`
	Error       *ErrorContext          `json:"error,omitempty"`
	Performance *PerformanceContext    `json:"performance,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
}

// HTTPContext is filled by the gin request middleware
type HTTPContext struct {
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Query        string            `json:"query"`
	UserAgent    string            `json:"user_agent"`
	RemoteIP     string            `json:"remote_ip"`
	Headers      map[string]string `json:"headers"`
	StatusCode   int               `json:"status_code"`
	ResponseSize int64             `json:"response_size"`
	RequestID    string            `json:"request_id"`
	RequestBody  string            `json:"request_body,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
}

// ErrorContext describes an error attached to an entry
type ErrorContext struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PerformanceContext carries timings
type PerformanceContext struct {
	Duration   time.Duration `json:"duration"`
	DurationMs float64       `json:"duration_ms"`
}

// LogContext holds additional context for WithContext
type LogContext struct {
	HTTP        *HTTPContext
	Error       *ErrorContext
	Performance *PerformanceContext
	Fields      map[string]interface{}
}

// Config holds the logger configuration
type Config struct {
	Service       string
	Version       string
	Environment   string
	IndexName     string        // Elasticsearch index receiving the entries
	FlushInterval time.Duration // how often pending entries are shipped
	BatchSize     int           // entries per shipment
	BufferSize    int           // channel capacity
	LogLevel      LogLevel
	EnableCaller  bool
	ExecutionID   string
	Output        io.Writer // used when no Elasticsearch client is given
}

// Logger is the main logger instance
type Logger struct {
	config      Config
	logChannel  chan LogEntry
	flushReq    chan chan struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	hostname    string
	pid         int
	sink        Sink
	ExecutionID string
}

// NewLogger creates a logger. A nil es client selects the writer sink.
func NewLogger(es *elasticsearch.Client, config Config) *Logger {
	if config.FlushInterval == 0 {
		config.FlushInterval = time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.BufferSize == 0 {
		config.BufferSize = 10000
	}
	if config.LogLevel == "" {
		config.LogLevel = LevelInfo
	}
	if config.IndexName == "" {
		config.IndexName = "ticketpulse-logs"
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.ExecutionID == "" {
		config.ExecutionID = uuid.New().String()[0:5]
	}

	var sink Sink = NewWriterSink(config.Output)
	if es != nil {
		sink = NewElasticsearchSink(es, config.IndexName)
	}

	return newLogger(sink, config)
}

// NewWithSink creates a logger over an arbitrary sink
func NewWithSink(sink Sink, config Config) *Logger {
	if config.FlushInterval == 0 {
		config.FlushInterval = time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.BufferSize == 0 {
		config.BufferSize = 10000
	}
	if config.LogLevel == "" {
		config.LogLevel = LevelInfo
	}
	return newLogger(sink, config)
}

func newLogger(sink Sink, config Config) *Logger {
	hostname, _ := os.Hostname()
	ctx, cancel := context.WithCancel(context.Background())

	l := &Logger{
		config:      config,
		logChannel:  make(chan LogEntry, config.BufferSize),
		flushReq:    make(chan chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		hostname:    hostname,
		pid:         os.Getpid(),
		sink:        sink,
		ExecutionID: config.ExecutionID,
	}

	l.wg.Add(1)
	go l.processLogs()

	return l
}

// processLogs batches entries and hands them to the sink
func (l *Logger) processLogs() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]LogEntry, 0, l.config.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := l.sink.Write(ctx, batch); err != nil {
			fmt.Fprintf(os.Stderr, "logger: shipping %d entries: %v\n", len(batch), err)
		}
		cancel()
		batch = batch[:0]
	}

	drain := func() {
		for {
			select {
			case entry := <-l.logChannel:
				batch = append(batch, entry)
			default:
				return
			}
		}
	}

	for {
		select {
		case entry := <-l.logChannel:
			batch = append(batch, entry)
			if len(batch) >= l.config.BatchSize {
				flush()
			}

		case done := <-l.flushReq:
			drain()
			flush()
			close(done)

		case <-ticker.C:
			flush()

		case <-l.ctx.Done():
			drain()
			flush()
			return
		}
	}
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return levelRank[level] >= levelRank[l.config.LogLevel]
}

func (l *Logger) createLogEntry(level LogLevel, message string, skip int) LogEntry {
	entry := LogEntry{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Level:       level,
		Message:     message,
		Logger:      "app",
		Service:     l.config.Service,
		Version:     l.config.Version,
		Environment: l.config.Environment,
		Hostname:    l.hostname,
		PID:         l.pid,
		ExecID:      l.config.ExecutionID,
	}

	if l.config.EnableCaller {
		if pc, file, line, ok := runtime.Caller(skip); ok {
			entry.Caller.File = file
			entry.Caller.Line = line
			if fn := runtime.FuncForPC(pc); fn != nil {
				entry.Caller.Function = fn.Name()
			}
		}
	}

	return entry
}

func (l *Logger) log(entry LogEntry) {
	if !l.shouldLog(entry.Level) || l.ctx.Err() != nil {
		return
	}

	select {
	case l.logChannel <- entry:
	default:
		fmt.Fprintf(os.Stderr, "logger channel full, dropping log: %s\n", entry.Message)
	}
}

func (l *Logger) write(level LogLevel, message string, err error, fields []map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}
	entry := l.createLogEntry(level, message, 3)
	if err != nil {
		entry.Error = &ErrorContext{
			Type:    fmt.Sprintf("%T", err),
			Message: err.Error(),
		}
	}
	if len(fields) > 0 {
		entry.Fields = fields[0]
	}
	l.log(entry)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.write(LevelDebug, message, nil, fields)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.write(LevelInfo, message, nil, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.write(LevelWarn, message, nil, fields)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.write(LevelError, message, err, fields)
}

// Fatal logs a fatal message. It does not exit.
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.write(LevelFatal, message, err, fields)
}

// WithContext logs with HTTP, error or timing context attached
func (l *Logger) WithContext(level LogLevel, message string, ctx LogContext) {
	if !l.shouldLog(level) {
		return
	}

	entry := l.createLogEntry(level, message, 2)
	entry.HTTP = ctx.HTTP
	entry.Error = ctx.Error
	entry.Performance = ctx.Performance
	entry.Fields = ctx.Fields

	l.log(entry)
}

// Flush ships every pending entry and waits for the sink
func (l *Logger) Flush() error {
	done := make(chan struct{})
	select {
	case l.flushReq <- done:
		<-done
	case <-l.ctx.Done():
	}
	return nil
}

// Close ships pending entries and stops the background goroutine
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.cancel()
		l.wg.Wait()
	})
	return nil
}
