package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/shared"
)

var _ models.Repository[*models.RequestRecord] = (*RequestRepository)(nil)

// RequestRepository implements [models.Repository] for the request journal.
//
// Records are append-only; Update always fails and Delete/Prune remove rows permanently.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new RequestRepository with the given database connection.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create appends a record, assigning its ID and sequence.
func (r *RequestRepository) Create(record *models.RequestRecord) error {
	seq, err := NextSequence(r.db, "requests")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if record.ID() == "" {
		record.SetID(shared.GenerateID())
	}
	record.SetSequence(seq)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO requests (id, sequence, method, path, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.Method(),
		record.Path(),
		record.Status(),
		record.Error(),
		record.Duration().Milliseconds(),
		record.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	return nil
}

// Get retrieves a record by ID.
func (r *RequestRepository) Get(id string) (*models.RequestRecord, error) {
	query := `
		SELECT id, sequence, method, path, status, error, duration_ms, created_at
		FROM requests
		WHERE id = ?
	`

	record, err := scanRequest(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: request %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return record, nil
}

// Update is not supported: journal entries are immutable.
func (r *RequestRepository) Update(record *models.RequestRecord) error {
	return fmt.Errorf("%w: request records are append-only", shared.ErrInvalidInput)
}

// Delete removes a single record.
func (r *RequestRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: request %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves records newest first.
//
// Supported criteria:
//   - "failed" (bool): only calls that errored or returned a non-2xx status
//   - "method" (string): HTTP method, case-insensitive
//   - "limit" (int): maximum number of records
func (r *RequestRepository) List(criteria map[string]any) ([]*models.RequestRecord, error) {
	query := `
		SELECT id, sequence, method, path, status, error, duration_ms, created_at
		FROM requests
		WHERE 1=1
	`
	args := []any{}

	if failed, ok := criteria["failed"].(bool); ok && failed {
		query += ` AND (error != '' OR status < 200 OR status >= 300)`
	}

	if method, ok := criteria["method"].(string); ok && method != "" {
		query += ` AND method = ?`
		args = append(args, strings.ToUpper(method))
	}

	query += ` ORDER BY sequence DESC`

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	records := []*models.RequestRecord{}
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	return records, nil
}

// Prune deletes records created before olderThan and returns how many were removed.
func (r *RequestRepository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM requests WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune requests: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*models.RequestRecord, error) {
	var (
		id, method, path, errText string
		sequence, status          int
		durationMS                int64
		createdAt                 time.Time
	)

	if err := row.Scan(&id, &sequence, &method, &path, &status, &errText, &durationMS, &createdAt); err != nil {
		return nil, err
	}

	return models.RestoreRequestRecord(
		id, sequence, method, path, status, errText,
		time.Duration(durationMS)*time.Millisecond, createdAt,
	), nil
}

// Journal records backend calls through a [RequestRepository].
//
// Its Observe method matches services.RequestObserver. Write failures are logged, never returned.
type Journal struct {
	mu     sync.Mutex
	repo   *RequestRepository
	logger *log.Logger
}

// NewJournal creates a Journal. A nil logger discards write failures.
func NewJournal(repo *RequestRepository, logger *log.Logger) *Journal {
	return &Journal{repo: repo, logger: logger}
}

// Observe appends one record for a completed call.
func (j *Journal) Observe(method, path string, status int, err error, elapsed time.Duration) {
	if j == nil || j.repo == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	record := models.NewRequestRecord(0, method, path, status, err, elapsed)
	if werr := j.repo.Create(record); werr != nil && j.logger != nil {
		j.logger.Warn("failed to journal request", "method", method, "path", path, "error", werr)
	}
}
