package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "fiialert/internal/errors"
	"fiialert/internal/models"
	"fiialert/internal/normalizer"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Tracked funds, created on first discovery
	CREATE TABLE IF NOT EXISTS funds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL UNIQUE,
		display_name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- One subscription per (user, fund)
	CREATE TABLE IF NOT EXISTS subscriptions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		fund_id INTEGER NOT NULL,
		categories TEXT NOT NULL,
		min_variation REAL NOT NULL DEFAULT 0,
		cooldown_seconds INTEGER NOT NULL DEFAULT 0,
		channel_target TEXT NOT NULL,
		extended_info INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, fund_id),
		FOREIGN KEY (fund_id) REFERENCES funds(id)
	);

	-- Dedup ledger; the event_key primary key is the at-most-once guarantee
	CREATE TABLE IF NOT EXISTS delivery_log (
		event_key TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		channel TEXT,
		provider_message_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		sent_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Unresolved normalizations awaiting manual curation
	CREATE TABLE IF NOT EXISTS review_queue (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		kind TEXT NOT NULL,
		trading_name TEXT,
		legal_name TEXT,
		reason TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_subscriptions_fund ON subscriptions(fund_id);
	CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions(user_id);
	CREATE INDEX IF NOT EXISTS idx_delivery_status ON delivery_log(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertFund creates the fund on first discovery; the ticker is immutable
// but the display name may be refreshed.
func (s *SQLiteStore) UpsertFund(ctx context.Context, ticker, displayName string) (*models.Fund, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO funds (ticker, display_name) VALUES (?, ?)
		ON CONFLICT(ticker) DO UPDATE SET display_name = excluded.display_name
		WHERE excluded.display_name != ''`,
		ticker, displayName)
	if err != nil {
		return nil, fmt.Errorf("upserting fund %s: %w", ticker, err)
	}
	return s.GetFundByTicker(ctx, ticker)
}

// GetFundByTicker returns the fund for a ticker, or ErrFundNotFound.
func (s *SQLiteStore) GetFundByTicker(ctx context.Context, ticker string) (*models.Fund, error) {
	var fund models.Fund
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, COALESCE(display_name, ''), created_at
		FROM funds WHERE ticker = ?`, ticker).
		Scan(&fund.ID, &fund.Ticker, &fund.DisplayName, &fund.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrFundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying fund %s: %w", ticker, err)
	}
	return &fund, nil
}

// ListFunds returns all tracked funds.
func (s *SQLiteStore) ListFunds(ctx context.Context) ([]models.Fund, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticker, COALESCE(display_name, ''), created_at
		FROM funds ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("listing funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		var f models.Fund
		if err := rows.Scan(&f.ID, &f.Ticker, &f.DisplayName, &f.CreatedAt); err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

// SaveSubscription inserts or replaces the (user, fund) subscription. The
// fund is created on first discovery when missing.
func (s *SQLiteStore) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	fund, err := s.GetFundByTicker(ctx, sub.Ticker)
	if err == apperrors.ErrFundNotFound {
		fund, err = s.UpsertFund(ctx, sub.Ticker, "")
	}
	if err != nil {
		return err
	}
	sub.FundID = fund.ID

	categories, err := json.Marshal(sub.Categories)
	if err != nil {
		return fmt.Errorf("marshaling categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subscriptions
			(user_id, fund_id, categories, min_variation, cooldown_seconds, channel_target, extended_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, fund_id) DO UPDATE SET
			categories = excluded.categories,
			min_variation = excluded.min_variation,
			cooldown_seconds = excluded.cooldown_seconds,
			channel_target = excluded.channel_target,
			extended_info = excluded.extended_info`,
		sub.UserID, sub.FundID, string(categories), sub.MinVariationPercent,
		int64(sub.Cooldown.Seconds()), sub.ChannelTarget, boolToInt(sub.ExtendedInfo))
	if err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes a user's subscription to a fund.
func (s *SQLiteStore) DeleteSubscription(ctx context.Context, userID, ticker string) error {
	fund, err := s.GetFundByTicker(ctx, ticker)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND fund_id = ?`, userID, fund.ID)
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return nil
}

// ResolveSubscribers returns the subscribers of each requested ticker in a
// single query.
func (s *SQLiteStore) ResolveSubscribers(ctx context.Context, tickers []string) (map[string][]models.Subscription, error) {
	result := make(map[string][]models.Subscription)
	if len(tickers) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(tickers)-1) + "?"
	args := make([]interface{}, len(tickers))
	for i, t := range tickers {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT s.user_id, s.fund_id, f.ticker, s.categories, s.min_variation,
		       s.cooldown_seconds, s.channel_target, s.extended_info, s.created_at
		FROM subscriptions s
		JOIN funds f ON f.id = s.fund_id
		WHERE f.ticker IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("resolving subscribers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sub models.Subscription
		var categories string
		var cooldownSeconds int64
		var extended int
		if err := rows.Scan(&sub.UserID, &sub.FundID, &sub.Ticker, &categories,
			&sub.MinVariationPercent, &cooldownSeconds, &sub.ChannelTarget,
			&extended, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(categories), &sub.Categories); err != nil {
			return nil, fmt.Errorf("unmarshaling categories for %s: %w", sub.UserID, err)
		}
		sub.Cooldown = time.Duration(cooldownSeconds) * time.Second
		sub.ExtendedInfo = extended != 0
		result[sub.Ticker] = append(result[sub.Ticker], sub)
	}
	return result, rows.Err()
}

// TrackedTickers lists every ticker that has at least one subscriber.
func (s *SQLiteStore) TrackedTickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT f.ticker
		FROM subscriptions s JOIN funds f ON f.id = s.fund_id
		ORDER BY f.ticker`)
	if err != nil {
		return nil, fmt.Errorf("listing tracked tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// TryClaim attempts to claim (userID, naturalKey) for delivery. The insert
// and the failed-row takeover are one conditional write; there is no
// read-then-write window. A sent row never matches the UPDATE predicate, so
// successful deliveries are permanent.
func (s *SQLiteStore) TryClaim(ctx context.Context, userID, naturalKey string) (string, bool, error) {
	eventKey := normalizer.EventKey(naturalKey, userID)
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_log (event_key, user_id, status, created_at, updated_at)
		VALUES (?, ?, 'pending', ?, ?)
		ON CONFLICT(event_key) DO UPDATE SET
			status = 'pending',
			updated_at = excluded.updated_at
		WHERE delivery_log.status = 'failed'`,
		eventKey, userID, now, now)
	if err != nil {
		return "", false, fmt.Errorf("claiming %s: %w", eventKey, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	return eventKey, affected > 0, nil
}

// MarkSent finalizes a pending claim as sent.
func (s *SQLiteStore) MarkSent(ctx context.Context, eventKey, channel, providerMessageID string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE delivery_log
		SET status = 'sent', channel = ?, provider_message_id = ?, sent_at = ?, updated_at = ?
		WHERE event_key = ?`,
		channel, providerMessageID, now, now, eventKey)
	if err != nil {
		return fmt.Errorf("marking %s sent: %w", eventKey, err)
	}
	return nil
}

// MarkFailed finalizes a pending claim as failed so a later cycle retries it.
func (s *SQLiteStore) MarkFailed(ctx context.Context, eventKey string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE delivery_log
		SET status = 'failed', updated_at = ?
		WHERE event_key = ?`,
		time.Now().UTC(), eventKey)
	if err != nil {
		return fmt.Errorf("marking %s failed: %w", eventKey, err)
	}
	return nil
}

// GetDelivery returns the ledger record for an event key, or nil.
func (s *SQLiteStore) GetDelivery(ctx context.Context, eventKey string) (*models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	var channel, messageID sql.NullString
	var sentAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT event_key, user_id, channel, provider_message_id, status, sent_at, created_at, updated_at
		FROM delivery_log WHERE event_key = ?`, eventKey).
		Scan(&rec.EventKey, &rec.UserID, &channel, &messageID, &rec.Status,
			&sentAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying delivery %s: %w", eventKey, err)
	}
	rec.Channel = channel.String
	rec.ProviderMessageID = messageID.String
	if sentAt.Valid {
		rec.SentAt = &sentAt.Time
	}
	return &rec, nil
}

// EnqueueReview stores an unresolved event for manual curation.
func (s *SQLiteStore) EnqueueReview(ctx context.Context, item *models.ReviewItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_queue (source, kind, trading_name, legal_name, reason)
		VALUES (?, ?, ?, ?, ?)`,
		item.Source, string(item.Kind), item.TradingName, item.LegalName, item.Reason)
	if err != nil {
		return fmt.Errorf("enqueueing review item: %w", err)
	}
	return nil
}

// ListReview returns the most recent unresolved events.
func (s *SQLiteStore) ListReview(ctx context.Context, limit int) ([]models.ReviewItem, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, kind, COALESCE(trading_name, ''), COALESCE(legal_name, ''),
		       COALESCE(reason, ''), created_at
		FROM review_queue ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing review queue: %w", err)
	}
	defer rows.Close()

	var items []models.ReviewItem
	for rows.Next() {
		var item models.ReviewItem
		var kind string
		if err := rows.Scan(&item.ID, &item.Source, &kind, &item.TradingName,
			&item.LegalName, &item.Reason, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Kind = models.EventKind(kind)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
