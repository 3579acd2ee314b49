package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

const (
	uniqueViolationErrCode    = "23505"
	connectionExceptionPrefix = "08"
)

const (
	summaryColumns = `id, original_url, short_code, short_url, clicks, qr_code, is_active, created_at, updated_at`
	linkColumns    = summaryColumns + `, analytics`
)

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

func isUnavailableError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, connectionExceptionPrefix)
}

// wrapError attaches the domain error matching a driver failure.
func wrapError(op, msg string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	case isUniqueViolationError(err):
		return fmt.Errorf("%s: %w", op, entity.ErrCodeTaken)
	case isUnavailableError(err):
		return fmt.Errorf("%s: %s: %w: %w", op, msg, entity.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %s: %w", op, msg, err)
	}
}

// clickList is the JSONB encoding of a link's click stream.
type clickList []entity.Click

func (c clickList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]entity.Click(c))
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (c *clickList) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*c = clickList{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported analytics type %T", src)
	}

	var clicks []entity.Click
	if err := json.Unmarshal(b, &clicks); err != nil {
		return err
	}
	if clicks == nil {
		clicks = []entity.Click{}
	}

	*c = clicks
	return nil
}

type linkDB struct {
	ID          uuid.UUID `db:"id"`
	OriginalURL string    `db:"original_url"`
	ShortCode   string    `db:"short_code"`
	ShortURL    string    `db:"short_url"`
	Clicks      int64     `db:"clicks"`
	QRCode      string    `db:"qr_code"`
	Analytics   clickList `db:"analytics"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortCode:   l.ShortCode,
		ShortURL:    l.ShortURL,
		Clicks:      l.Clicks,
		QRCode:      l.QRCode,
		Analytics:   []entity.Click(l.Analytics),
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toEntities(rows []linkDB) []*entity.Link {
	links := make([]*entity.Link, 0, len(rows))
	for i := range rows {
		links = append(links, rows[i].toEntity())
	}
	return links
}

// LinkRepository stores links and reserved short codes in PostgreSQL.
type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Reserve inserts shortCode into the append-only short_codes table.
func (r *LinkRepository) Reserve(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.postgres.LinkRepository.Reserve"
	const query = `INSERT INTO short_codes(code) VALUES ($1) ON CONFLICT DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return wrapError(op, "failed to insert into short_codes table", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrCodeTaken)
	}

	return nil
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	const query = `INSERT INTO links(id, original_url, short_code, short_url, clicks, qr_code, analytics, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10)
		RETURNING ` + linkColumns

	var row linkDB

	err := r.db.GetContext(ctx, &row, query,
		link.ID,
		link.OriginalURL,
		link.ShortCode,
		link.ShortURL,
		int64(len(link.Analytics)),
		link.QRCode,
		clickList(link.Analytics),
		link.IsActive,
		link.CreatedAt,
		link.UpdatedAt,
	)
	if err != nil {
		return nil, wrapError(op, "failed to insert into links table", err)
	}

	return row.toEntity(), nil
}

func (r *LinkRepository) RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveByID"
	const query = `SELECT ` + linkColumns + ` FROM links WHERE id = $1`

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, wrapError(op, "failed to get row from links table", err)
	}

	return row.toEntity(), nil
}

// Update locks the row, applies fn and writes back the mutable columns in
// one transaction. Nothing is written if fn returns an error.
func (r *LinkRepository) Update(ctx context.Context, id uuid.UUID, fn func(link *entity.Link) error) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Update"
	const selectQuery = `SELECT ` + linkColumns + ` FROM links WHERE id = $1 FOR UPDATE`
	const updateQuery = `UPDATE links
		SET original_url = $2, short_code = $3, short_url = $4, qr_code = $5, is_active = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + linkColumns

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, wrapError(op, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var current linkDB
	if err := tx.GetContext(ctx, &current, selectQuery, id); err != nil {
		return nil, wrapError(op, "failed to lock links table row", err)
	}

	link := current.toEntity()
	if err := fn(link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var updated linkDB
	err = tx.GetContext(ctx, &updated, updateQuery,
		id,
		link.OriginalURL,
		link.ShortCode,
		link.ShortURL,
		link.QRCode,
		link.IsActive,
		link.UpdatedAt,
	)
	if err != nil {
		return nil, wrapError(op, "failed to update links table row", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapError(op, "failed to commit transaction", err)
	}

	return updated.toEntity(), nil
}

// AppendClick appends click to the active link with shortCode and increments
// its counter in a single statement. The returned link carries no click stream.
func (r *LinkRepository) AppendClick(ctx context.Context, shortCode string, click entity.Click) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.AppendClick"
	const query = `UPDATE links
		SET clicks = clicks + 1, analytics = analytics || $2::jsonb
		WHERE short_code = $1 AND is_active
		RETURNING ` + summaryColumns

	var row linkDB

	if err := r.db.GetContext(ctx, &row, query, shortCode, clickList{click}); err != nil {
		return nil, wrapError(op, "failed to append click", err)
	}

	link := row.toEntity()
	link.Analytics = nil

	return link, nil
}

// ListActive returns active links newest first, without their click streams.
func (r *LinkRepository) ListActive(ctx context.Context, offset, limit int) ([]*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.ListActive"
	const query = `SELECT ` + summaryColumns + ` FROM links
		WHERE is_active
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, wrapError(op, "failed to select from links table", err)
	}

	links := toEntities(rows)
	for _, l := range links {
		l.Analytics = nil
	}

	return links, nil
}

func (r *LinkRepository) CountActive(ctx context.Context) (int64, error) {
	const op = "adapter.repository.postgres.LinkRepository.CountActive"
	const query = `SELECT COUNT(*) FROM links WHERE is_active`

	var n int64

	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, wrapError(op, "failed to count links", err)
	}

	return n, nil
}

// RetrieveAllActive returns every active link with its click stream.
func (r *LinkRepository) RetrieveAllActive(ctx context.Context) ([]*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveAllActive"
	const query = `SELECT ` + linkColumns + ` FROM links
		WHERE is_active
		ORDER BY created_at DESC, id DESC`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, wrapError(op, "failed to select from links table", err)
	}

	return toEntities(rows), nil
}
