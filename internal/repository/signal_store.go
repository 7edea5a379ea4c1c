package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	pkgch "TradeYodha/pkg/clickhouse"
	applogger "TradeYodha/pkg/logger"
)

// CHSignalStore implements SignalHistory backed by ClickHouse.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewCHSignalStore creates ClickHouse-backed signal history.
func NewCHSignalStore(ch *pkgch.Client, table string) *CHSignalStore {
	return &CHSignalStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init is a no-op; schema is created by the ClickHouse client at startup.
func (s *CHSignalStore) Init(ctx context.Context) error { return nil }

const signalCols = "fired_at, ticker, id, type, tier, title, summary, bias, confidence, price, target1, stop, panels"

// SignalsSchema returns the bootstrap DDL for the signal history table.
// Column types must stay in sync with signalArgs: confidence and bias
// are fixed string classifications, not scores.
func SignalsSchema(db string) []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".signals (" +
			"fired_at DateTime64(3), ticker String, id String, type String, tier UInt8, " +
			"title String, summary String, bias String, confidence String, price Float64, " +
			"target1 Nullable(Float64), stop Nullable(Float64), panels String" +
			") ENGINE=MergeTree ORDER BY (ticker, fired_at)",
	}
}

// Store inserts one fired signal.
func (s *CHSignalStore) Store(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, signalCols)
	_, err := s.db.ExecContext(ctx, q, signalArgs(sig)...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal insert error",
				applogger.String("ticker", sig.Ticker),
				applogger.String("type", string(sig.Type)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signal: %w", err)
	}
	return nil
}

// StoreBatch inserts fired signals with a multi-row VALUES statement.
func (s *CHSignalStore) StoreBatch(ctx context.Context, sigs []*models.Signal) error {
	if len(sigs) == 0 {
		return nil
	}

	values := make([]string, 0, len(sigs))
	args := make([]interface{}, 0, len(sigs)*13)
	for _, sig := range sigs {
		if sig == nil || sig.Ticker == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, signalArgs(sig)...)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, signalCols, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store signal batch: %w", err)
	}
	return nil
}

// Query returns signals for symbol in [from, to], newest first, filtered
// to tier <= maxTier.
func (s *CHSignalStore) Query(ctx context.Context, symbol string, from, to time.Time, limit, maxTier int) ([]*models.Signal, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT %s
        FROM %s
        WHERE ticker = ? AND fired_at >= ? AND fired_at <= ? AND tier <= ?
        ORDER BY fired_at DESC
        LIMIT ?
    `, signalCols, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, maxTier, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Signal, 0, limit)
	for rows.Next() {
		var (
			sig     models.Signal
			target1 sql.NullFloat64
			stop    sql.NullFloat64
			panels  string
		)
		if err := rows.Scan(&sig.FiredAt, &sig.Ticker, &sig.ID, &sig.Type, &sig.Tier,
			&sig.Title, &sig.Summary, &sig.Bias, &sig.Confidence, &sig.Price,
			&target1, &stop, &panels); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if target1.Valid {
			v := target1.Float64
			sig.Target1 = &v
		}
		if stop.Valid {
			v := stop.Float64
			sig.Stop = &v
		}
		if panels != "" {
			if err := json.Unmarshal([]byte(panels), &sig.Panels); err != nil && s.l != nil {
				s.l.Warn("clickhouse panels decode error",
					applogger.String("id", sig.ID),
					applogger.Error(err),
				)
			}
		}
		out = append(out, &sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse signal query ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // connection pool managed by pkg client
}

func signalArgs(sig *models.Signal) []interface{} {
	var target1, stop interface{}
	if sig.Target1 != nil {
		target1 = *sig.Target1
	}
	if sig.Stop != nil {
		stop = *sig.Stop
	}
	panels, _ := json.Marshal(sig.Panels)
	return []interface{}{
		sig.FiredAt,
		sig.Ticker,
		sig.ID,
		string(sig.Type),
		sig.Tier,
		sig.Title,
		sig.Summary,
		string(sig.Bias),
		string(sig.Confidence),
		sig.Price,
		target1,
		stop,
		string(panels),
	}
}

var _ domrepo.SignalHistory = (*CHSignalStore)(nil)
