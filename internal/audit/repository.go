package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event kinds and outcomes as stored.
const (
	KindAccess   = "access"
	KindDoorbell = "doorbell"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// createdAtLayout is fixed-width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AccessEvent is one journal row.
type AccessEvent struct {
	ID     string `json:"id"`
	SiteID string `json:"site_id"`
	Kind   string `json:"kind"`

	// Outcome is empty for doorbell rings.
	Outcome string `json:"outcome,omitempty"`
	Owner   string `json:"owner,omitempty"`
	// OwnerIndex is the registry index of the owner, or -1.
	OwnerIndex int `json:"owner_index"`

	AcceptedTotal uint64    `json:"accepted_total"`
	RejectedTotal uint64    `json:"rejected_total"`
	DoorbellTotal uint64    `json:"doorbell_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Kind    string
	Outcome string
	Since   time.Time
	Limit   int // default 50, max 200
	Offset  int
}

// ListResult is one page of journal rows, newest first.
type ListResult struct {
	Events []AccessEvent `json:"events"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Summary counts journal rows by outcome.
type Summary struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Doorbell int `json:"doorbell"`
}

// Repository is the journal interface used by the event dispatcher.
type Repository interface {
	Create(ctx context.Context, e *AccessEvent) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Summary(ctx context.Context) (*Summary, error)
}

// SQLiteRepository stores the journal in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create appends e. ID and CreatedAt are filled in when empty.
func (r *SQLiteRepository) Create(ctx context.Context, e *AccessEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var ownerIndex any
	if e.OwnerIndex >= 0 && e.Owner != "" {
		ownerIndex = e.OwnerIndex
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_events (id, site_id, kind, outcome, owner, owner_index,
		     accepted_total, rejected_total, doorbell_total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SiteID, e.Kind,
		nullableString(e.Outcome), nullableString(e.Owner), ownerIndex,
		int64(e.AcceptedTotal), int64(e.RejectedTotal), int64(e.DoorbellTotal), //nolint:gosec // counters stay far below MaxInt64
		e.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting access event: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns events matching filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(createdAtLayout))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM access_events " + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting access events: %w", err)
	}

	query := `SELECT id, site_id, kind, outcome, owner, owner_index,
		accepted_total, rejected_total, doorbell_total, created_at
		FROM access_events ` + where + ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying access events: %w", err)
	}
	defer rows.Close()

	events := []AccessEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access events: %w", err)
	}

	return &ListResult{
		Events: events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func scanEvent(rows *sql.Rows) (AccessEvent, error) {
	var e AccessEvent
	var outcome, owner sql.NullString
	var ownerIndex sql.NullInt64
	var accepted, rejected, doorbell int64
	var createdAt string

	if err := rows.Scan(&e.ID, &e.SiteID, &e.Kind, &outcome, &owner, &ownerIndex,
		&accepted, &rejected, &doorbell, &createdAt); err != nil {
		return e, fmt.Errorf("scanning access event: %w", err)
	}

	e.Outcome = outcome.String
	e.Owner = owner.String
	e.OwnerIndex = -1
	if ownerIndex.Valid {
		e.OwnerIndex = int(ownerIndex.Int64)
	}
	e.AcceptedTotal = uint64(accepted) //nolint:gosec // written from uint64
	e.RejectedTotal = uint64(rejected) //nolint:gosec // written from uint64
	e.DoorbellTotal = uint64(doorbell) //nolint:gosec // written from uint64

	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return e, fmt.Errorf("parsing access event timestamp %q: %w", createdAt, err)
	}
	e.CreatedAt = t

	return e, nil
}

// Summary counts accepted, rejected and doorbell rows.
func (r *SQLiteRepository) Summary(ctx context.Context) (*Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COALESCE(outcome, ''), COUNT(*) FROM access_events GROUP BY kind, outcome`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarising access events: %w", err)
	}
	defer rows.Close()

	s := &Summary{}
	for rows.Next() {
		var kind, outcome string
		var n int
		if err := rows.Scan(&kind, &outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		switch {
		case kind == KindDoorbell:
			s.Doorbell += n
		case outcome == OutcomeAccepted:
			s.Accepted += n
		case outcome == OutcomeRejected:
			s.Rejected += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}
	return s, nil
}
