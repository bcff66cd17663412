// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package settlement

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// goose keeps its settings in package globals.
var migrateMu sync.Mutex

// Status is the lifecycle of a payout in the journal.
type Status string

const (
	// StatusStaged payouts wait for the ledger state that zeroed the
	// balance to be snapshotted.
	StatusStaged  Status = "staged"
	StatusPending Status = "pending"
	StatusSettled Status = "settled"
	StatusFailed  Status = "failed"
	// StatusVoided payouts were staged by a ledger state that never reached
	// a snapshot, the balance was restored to the participant.
	StatusVoided Status = "voided"
)

var ErrPayoutNotFound = errors.New("payout not found")

// Payout is a claimed amount on its way out of the ledger.
type Payout struct {
	ID      string
	Account types.AccountID
	Amount  *num.Uint
	Status  Status
	// CommitVersion is the first snapshot version holding the claim.
	CommitVersion uint64
	Attempts      uint64
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// journal persists the payouts so none is lost across restarts.
type journal struct {
	db *sql.DB
}

func openJournal(log *logging.Logger, path string) (*journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection serialises the writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrateToLatestSchema(log, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating the journal schema: %w", err)
	}
	return &journal{db: db}, nil
}

func migrateToLatestSchema(log *logging.Logger, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log.Named("journal migration").GooseLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, migrationsDir)
}

func (j *journal) close() error {
	return j.db.Close()
}

func (j *journal) insert(ctx context.Context, p *Payout) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO payouts (id, account, amount, status, commit_version, attempts, last_error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, '', ?, ?)`,
		p.ID, string(p.Account), p.Amount.String(), string(p.Status), int64(p.CommitVersion),
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert payout %s: %w", p.ID, err)
	}
	return nil
}

func (j *journal) update(ctx context.Context, id string, status Status, attempts uint64, lastErr string, at time.Time) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, attempts = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		string(status), int64(attempts), lastErr, at.UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("update payout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPayoutNotFound, id)
	}
	return nil
}

// requeueFailed moves every failed payout back to pending and returns them.
func (j *journal) requeueFailed(ctx context.Context, at time.Time) ([]*Payout, error) {
	failed, err := j.byStatus(ctx, StatusFailed)
	if err != nil {
		return nil, err
	}
	_, err = j.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, updated_at = ? WHERE status = ?`,
		string(StatusPending), at.UnixNano(), string(StatusFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("requeue failed payouts: %w", err)
	}
	for _, p := range failed {
		p.Status = StatusPending
		p.UpdatedAt = at
	}
	return failed, nil
}

// releaseStaged moves the staged payouts committed by the snapshot of the
// given version to pending and returns them.
func (j *journal) releaseStaged(ctx context.Context, version uint64, at time.Time) ([]*Payout, error) {
	staged, err := j.query(ctx, `WHERE status = ? AND commit_version <= ? ORDER BY created_at, id`,
		string(StatusStaged), int64(version))
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return staged, nil
	}
	_, err = j.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, updated_at = ? WHERE status = ? AND commit_version <= ?`,
		string(StatusPending), at.UnixNano(), string(StatusStaged), int64(version),
	)
	if err != nil {
		return nil, fmt.Errorf("release staged payouts: %w", err)
	}
	for _, p := range staged {
		p.Status = StatusPending
		p.UpdatedAt = at
	}
	return staged, nil
}

// voidStaged marks the staged payouts no snapshot up to version holds as
// voided and returns them.
func (j *journal) voidStaged(ctx context.Context, version uint64, at time.Time) ([]*Payout, error) {
	staged, err := j.query(ctx, `WHERE status = ? AND commit_version > ? ORDER BY created_at, id`,
		string(StatusStaged), int64(version))
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 {
		return staged, nil
	}
	_, err = j.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, updated_at = ? WHERE status = ? AND commit_version > ?`,
		string(StatusVoided), at.UnixNano(), string(StatusStaged), int64(version),
	)
	if err != nil {
		return nil, fmt.Errorf("void staged payouts: %w", err)
	}
	for _, p := range staged {
		p.Status = StatusVoided
		p.UpdatedAt = at
	}
	return staged, nil
}

func (j *journal) get(ctx context.Context, id string) (*Payout, error) {
	rows, err := j.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPayoutNotFound, id)
	}
	return rows[0], nil
}

func (j *journal) byStatus(ctx context.Context, status Status) ([]*Payout, error) {
	return j.query(ctx, `WHERE status = ? ORDER BY created_at, id`, string(status))
}

func (j *journal) byAccount(ctx context.Context, account types.AccountID) ([]*Payout, error) {
	return j.query(ctx, `WHERE account = ? ORDER BY created_at, id`, string(account))
}

func (j *journal) query(ctx context.Context, where string, args ...any) ([]*Payout, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, account, amount, status, commit_version, attempts, last_error, created_at, updated_at FROM payouts `+where,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query payouts: %w", err)
	}
	defer rows.Close()

	out := []*Payout{}
	for rows.Next() {
		var (
			p                Payout
			account, amount  string
			status           string
			commitVersion    int64
			attempts         int64
			created, updated int64
		)
		if err := rows.Scan(&p.ID, &account, &amount, &status, &commitVersion, &attempts, &p.LastError, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		amt, overflow := num.UintFromString(amount, 10)
		if overflow {
			return nil, fmt.Errorf("invalid amount %q for payout %s", amount, p.ID)
		}
		p.Account = types.AccountID(account)
		p.Amount = amt
		p.Status = Status(status)
		p.CommitVersion = uint64(commitVersion)
		p.Attempts = uint64(attempts)
		p.CreatedAt = time.Unix(0, created).UTC()
		p.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, &p)
	}
	return out, rows.Err()
}
