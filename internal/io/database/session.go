package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quotidian-org/seedtaxa/pkg/db"
)

// AttachedSchema is the schema name under which a candidate database is
// attached for the duration of an upgrade session.
const AttachedSchema = "newdb"

// Session pins a single connection from the pool and attaches a
// candidate database to it. ATTACH is connection-scoped in SQLite, so
// every statement that needs to see both schemas must run through the
// session's connection.
type Session struct {
	conn     *sql.Conn
	attached bool
}

// NewSession acquires a dedicated connection and attaches the candidate
// file as AttachedSchema.
func NewSession(
	ctx context.Context, op db.Operator, candidatePath string,
) (*Session, error) {
	if op.DB() == nil {
		return nil, notConnectedError()
	}
	conn, err := op.DB().Conn(ctx)
	if err != nil {
		return nil, connectionError(candidatePath, err)
	}
	_, err = conn.ExecContext(
		ctx, "ATTACH DATABASE ? AS "+AttachedSchema, candidatePath,
	)
	if err != nil {
		conn.Close()
		return nil, attachError(candidatePath, err)
	}
	slog.Debug("Attached candidate database",
		"path", candidatePath, "schema", AttachedSchema)
	return &Session{conn: conn, attached: true}, nil
}

// Conn returns the pinned connection the candidate is attached to.
func (s *Session) Conn() *sql.Conn {
	return s.conn
}

// DisableForeignKeys turns off foreign key enforcement on the session
// connection. It cannot run inside an open transaction.
func (s *Session) DisableForeignKeys(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	if err != nil {
		return foreignKeysError("OFF", err)
	}
	return nil
}

// EnableForeignKeys restores foreign key enforcement.
func (s *Session) EnableForeignKeys(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	if err != nil {
		return foreignKeysError("ON", err)
	}
	return nil
}

// Close detaches the candidate database and releases the connection
// back to the pool. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	var detachErr error
	if s.attached {
		_, err := s.conn.ExecContext(
			ctx, "DETACH DATABASE "+AttachedSchema,
		)
		if err != nil {
			detachErr = detachError(err)
		}
		s.attached = false
	}
	err := s.conn.Close()
	s.conn = nil
	if detachErr != nil {
		return detachErr
	}
	return err
}
