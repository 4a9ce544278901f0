package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSlowThreshold is the query duration above which SQL is logged as slow
const DefaultSlowThreshold = 200 * time.Millisecond

// ledgerTables are the tables a statement is attributed to in logs
var ledgerTables = []string{"purchases", "sales", "schema_versions"}

// SQLLogger routes gorm output into the core logger. Statements run at
// Debug; slow ones and unexpected failures are raised to Warn and Error.
type SQLLogger struct {
	log        coreport.Logger
	clock      coreport.TimeProvider
	classifier *repository.ErrorClassifier
	level      logger.LogLevel
	slow       time.Duration
}

// NewSQLLogger creates a gorm logger at the given level name
func NewSQLLogger(log coreport.Logger, clock coreport.TimeProvider, level string) logger.Interface {
	return &SQLLogger{
		log:        log,
		clock:      clock,
		classifier: repository.NewErrorClassifier(),
		level:      gormLevel(level),
		slow:       DefaultSlowThreshold,
	}
}

func gormLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	default:
		return logger.Info
	}
}

// LogMode returns a copy at level
func (l *SQLLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, data...), l.fields(ctx))
	}
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...), l.fields(ctx))
	}
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, data...), l.fields(ctx))
	}
}

// Trace logs one executed statement
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := l.clock.Since(begin).Std()
	stmt, rows := fc()

	fields := l.fields(ctx)
	fields["elapsed"] = elapsed.String()
	fields["rows"] = rows
	fields["sql"] = stmt
	if table := ledgerTable(stmt); table != "" {
		fields["table"] = table
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	switch {
	case err != nil && l.level >= logger.Error && !l.expected(err):
		l.log.Error("SQL statement failed", fields)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		l.log.Warn("Slow SQL statement", fields)
	case l.level >= logger.Info:
		l.log.Debug("SQL statement", fields)
	}
}

// expected reports outcomes the repositories turn into purchase results:
// a missing sale row or a second purchase by the same user
func (l *SQLLogger) expected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		l.classifier.Classify(err) == repository.DuplicateKeyError
}

func (l *SQLLogger) fields(ctx context.Context) map[string]any {
	fields := map[string]any{"source": "database"}
	if id := coreport.CorrelationIDFrom(ctx); id != "" {
		fields["correlation_id"] = id
	}
	return fields
}

func ledgerTable(stmt string) string {
	lower := strings.ToLower(stmt)
	for _, table := range ledgerTables {
		if strings.Contains(lower, `"`+table+`"`) || strings.Contains(lower, "`"+table+"`") || strings.Contains(lower, " "+table+" ") {
			return table
		}
	}
	return ""
}
