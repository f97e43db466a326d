package jobs

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `CREATE TABLE IF NOT EXISTS jobs (
	id      TEXT PRIMARY KEY,
	source  TEXT NOT NULL,
	status  TEXT NOT NULL,
	output  TEXT NOT NULL DEFAULT '',
	error   TEXT NOT NULL DEFAULT '',
	created INTEGER NOT NULL,
	updated INTEGER NOT NULL
)`

// Job is a single conversion tracked by the store.
type Job struct {
	ID      string
	Source  string
	Status  Status
	Output  string
	Error   string
	Created time.Time
	Updated time.Time
}

// Stats counts jobs by status.
type Stats struct {
	Queued     int
	Processing int
	Completed  int
	Failed     int
}

// Store keeps job records in a sqlite database. The connection is not safe
// for concurrent use so all access goes through the mutex.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// OpenStore opens the job database at path creating it when necessary.
// Empty path keeps all records in memory, which is what one-shot command
// runs want.
func OpenStore(path string, log *zap.Logger) (*Store, error) {
	var (
		conn *sqlite.Conn
		err  error
	)
	if len(path) == 0 {
		conn, err = sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenMemory)
	} else {
		conn, err = sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open job store: %w", err)
	}
	if err := sqlitex.Execute(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare job store: %w", err)
	}
	return &Store{conn: conn, log: log}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Create registers a new queued job for the given source and returns it.
func (s *Store) Create(source string) (*Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to allocate job id: %w", err)
	}

	now := time.Now()
	job := &Job{
		ID:      id.String(),
		Source:  source,
		Status:  StatusQueued,
		Created: now,
		Updated: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = sqlitex.Execute(s.conn, `INSERT INTO jobs (id, source, status, output, error, created, updated) VALUES (?, ?, ?, '', '', ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{job.ID, job.Source, job.Status.String(), now.Unix(), now.Unix()}})
	if err != nil {
		return nil, fmt.Errorf("unable to store job: %w", err)
	}
	return job, nil
}

// SetProcessing marks the job as picked up by a worker.
func (s *Store) SetProcessing(id string) error {
	return s.update(id, StatusProcessing, "", "")
}

// Complete marks the job as done and records where the output went.
func (s *Store) Complete(id, output string) error {
	return s.update(id, StatusCompleted, output, "")
}

// Fail marks the job as failed and records the cause.
func (s *Store) Fail(id string, cause error) error {
	return s.update(id, StatusFailed, "", cause.Error())
}

// Updating an unknown id is not an error, the record may have been cleaned
// up already.
func (s *Store) update(id string, status Status, output, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, `UPDATE jobs SET status = ?, output = ?, error = ?, updated = ? WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{status.String(), output, errText, time.Now().Unix(), id}})
	if err != nil {
		return fmt.Errorf("unable to update job %s: %w", id, err)
	}
	return nil
}

// Get returns the job with the given id or nil when it is not known.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var job *Job
	err := sqlitex.Execute(s.conn, `SELECT id, source, status, output, error, created, updated FROM jobs WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				j, err := readJob(stmt)
				if err != nil {
					return err
				}
				job = j
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read job %s: %w", id, err)
	}
	return job, nil
}

func readJob(stmt *sqlite.Stmt) (*Job, error) {
	status, err := ParseStatus(stmt.ColumnText(2))
	if err != nil {
		return nil, err
	}
	return &Job{
		ID:      stmt.ColumnText(0),
		Source:  stmt.ColumnText(1),
		Status:  status,
		Output:  stmt.ColumnText(3),
		Error:   stmt.ColumnText(4),
		Created: time.Unix(stmt.ColumnInt64(5), 0),
		Updated: time.Unix(stmt.ColumnInt64(6), 0),
	}, nil
}

// Stats counts stored jobs by status.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	err := sqlitex.Execute(s.conn, `SELECT status, COUNT(*) FROM jobs GROUP BY status`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			status, err := ParseStatus(stmt.ColumnText(0))
			if err != nil {
				return err
			}
			n := int(stmt.ColumnInt64(1))
			switch status {
			case StatusQueued:
				stats.Queued = n
			case StatusProcessing:
				stats.Processing = n
			case StatusCompleted:
				stats.Completed = n
			case StatusFailed:
				stats.Failed = n
			}
			return nil
		}})
	if err != nil {
		return Stats{}, fmt.Errorf("unable to collect job stats: %w", err)
	}
	return stats, nil
}

// CleanupExpired removes finished jobs older than the given age together
// with their output files and reports how many records went away.
func (s *Store) CleanupExpired(age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age).Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	var outputs []string
	err := sqlitex.Execute(s.conn, `SELECT output FROM jobs WHERE status IN (?, ?) AND created <= ?`,
		&sqlitex.ExecOptions{
			Args: []any{StatusCompleted.String(), StatusFailed.String(), cutoff},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if out := stmt.ColumnText(0); len(out) > 0 {
					outputs = append(outputs, out)
				}
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("unable to find expired jobs: %w", err)
	}

	err = sqlitex.Execute(s.conn, `DELETE FROM jobs WHERE status IN (?, ?) AND created <= ?`,
		&sqlitex.ExecOptions{Args: []any{StatusCompleted.String(), StatusFailed.String(), cutoff}})
	if err != nil {
		return 0, fmt.Errorf("unable to remove expired jobs: %w", err)
	}
	removed := s.conn.Changes()

	for _, out := range outputs {
		if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Unable to remove expired output", zap.String("path", out), zap.Error(err))
		}
	}
	if removed > 0 {
		s.log.Info("Removed expired jobs", zap.Int("count", removed))
	}
	return removed, nil
}
