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
	"fmt"
	"sync"
	"time"

	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/metrics"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Transferer moves value to an account of the hosting network.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/transferer_mock.go -package mocks code.bizonmatrix.io/bizon/core/settlement Transferer
type Transferer interface {
	Transfer(ctx context.Context, account types.AccountID, amount *num.Uint) error
}

// Queue records every claimed amount in the payout journal before handing
// it to the transferer. A committed claim is never reversed: a payout the
// transferer keeps rejecting ends up failed in the journal, waiting for an
// operator to replay it.
type Queue struct {
	log        *logging.Logger
	cfg        Config
	journal    *journal
	transferer Transferer
	now        func() time.Time

	payouts chan *Payout
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

func New(log *logging.Logger, cfg Config, bizonPaths paths.Paths, transferer Transferer) (*Queue, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	path := cfg.JournalPath
	if len(path) == 0 {
		var err error
		path, err = bizonPaths.CreateStatePathFor(paths.SettlementJournalFile)
		if err != nil {
			return nil, err
		}
	}

	j, err := openJournal(log, path)
	if err != nil {
		return nil, fmt.Errorf("could not open the payout journal: %w", err)
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}

	log.Info("payout journal opened", logging.String("path", path))

	return &Queue{
		log:        log,
		cfg:        cfg,
		journal:    j,
		transferer: transferer,
		now:        func() time.Time { return time.Now().UTC() },
		payouts:    make(chan *Payout, size),
	}, nil
}

// Stage journals the payout as staged. It is not paid before Release is
// called with a snapshot version at least equal to commitVersion, so a claim
// lost with an unsnapshotted state is never paid. Stage never fails from the
// point of view of the ledger: a payout that cannot be journaled is logged
// with everything needed to settle it by hand.
func (q *Queue) Stage(ctx context.Context, account types.AccountID, amount *num.Uint, commitVersion uint64) {
	now := q.now()
	p := &Payout{
		ID:            uuid.NewString(),
		Account:       account,
		Amount:        amount.Clone(),
		Status:        StatusStaged,
		CommitVersion: commitVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.journal.insert(ctx, p); err != nil {
		q.log.Error("could not journal payout, manual settlement required",
			logging.String("payout-id", p.ID),
			logging.Account(account.String()),
			logging.BigUint("amount", amount),
			logging.Error(err))
		metrics.PayoutCounterInc(string(StatusFailed))
		return
	}
	metrics.PayoutCounterInc(string(StatusStaged))
}

// Release moves the payouts staged up to the given snapshot version to
// pending and queues them.
func (q *Queue) Release(ctx context.Context, version uint64) error {
	// held until the payouts are buffered so Start never resumes a payout
	// that is also buffered.
	q.mu.Lock()
	defer q.mu.Unlock()

	released, err := q.journal.releaseStaged(ctx, version, q.now())
	if err != nil {
		return err
	}
	for _, p := range released {
		metrics.PayoutCounterInc(string(StatusPending))

		// before the start the journal is the queue, Start resumes every
		// pending payout.
		if !q.started {
			continue
		}
		select {
		case q.payouts <- p:
		default:
			q.log.Warn("payout queue is full, payout stays pending until the next start",
				logging.String("payout-id", p.ID))
		}
	}
	return nil
}

// Reconcile settles the fate of the payouts staged by a previous run against
// the snapshot version the ledger was restored from: the ones it holds are
// released, the others are voided as their claim was lost with the state.
// It must be called before Start.
func (q *Queue) Reconcile(ctx context.Context, restored uint64) error {
	voided, err := func() ([]*Payout, error) {
		q.mu.Lock()
		defer q.mu.Unlock()
		return q.journal.voidStaged(ctx, restored, q.now())
	}()
	if err != nil {
		return err
	}
	for _, p := range voided {
		metrics.PayoutCounterInc(string(StatusVoided))
		q.log.Warn("payout voided, its claim was never snapshotted",
			logging.String("payout-id", p.ID),
			logging.Account(p.Account.String()),
			logging.BigUint("amount", p.Amount),
			logging.Uint64("commit-version", p.CommitVersion),
			logging.Uint64("restored-version", restored))
	}
	return q.Release(ctx, restored)
}

// Start runs the worker. Pending payouts left by a previous run are queued
// first.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return nil
	}

	pending, err := q.journal.byStatus(ctx, StatusPending)
	if err != nil {
		return err
	}

	ctx, q.cancel = context.WithCancel(ctx)
	q.started = true

	q.wg.Add(1)
	go q.run(ctx, pending)

	q.log.Info("settlement worker started", logging.Int("resumed", len(pending)))
	return nil
}

func (q *Queue) run(ctx context.Context, resumed []*Payout) {
	defer q.wg.Done()

	for _, p := range resumed {
		if ctx.Err() != nil {
			return
		}
		q.settle(ctx, p)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-q.payouts:
			q.settle(ctx, p)
		}
	}
}

func (q *Queue) settle(ctx context.Context, p *Payout) {
	var (
		attempts uint64
		lastErr  error
	)

	op := func() error {
		attempts++
		lastErr = q.transferer.Transfer(ctx, p.Account, p.Amount.Clone())
		if lastErr != nil {
			q.log.Warn("transfer attempt failed",
				logging.String("payout-id", p.ID),
				logging.Uint64("attempt", attempts),
				logging.Error(lastErr))
		}
		return lastErr
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = q.cfg.InitialInterval.Get()
	bo.MaxInterval = q.cfg.MaxInterval.Get()
	bo.MaxElapsedTime = 0

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, q.cfg.MaxRetries), ctx))
	if err != nil && ctx.Err() != nil {
		// shutting down, the payout stays pending and is resumed at the
		// next start.
		return
	}

	status, msg := StatusSettled, ""
	if err != nil {
		status, msg = StatusFailed, err.Error()
	}

	// use a fresh context, the outcome must be recorded even if the
	// worker is stopping.
	if err := q.journal.update(context.Background(), p.ID, status, p.Attempts+attempts, msg, q.now()); err != nil {
		q.log.Error("could not record payout outcome",
			logging.String("payout-id", p.ID),
			logging.String("status", string(status)),
			logging.Error(err))
		return
	}
	metrics.PayoutCounterInc(string(status))

	if status == StatusFailed {
		q.log.Error("payout failed",
			logging.String("payout-id", p.ID),
			logging.Account(p.Account.String()),
			logging.BigUint("amount", p.Amount),
			logging.Error(lastErr))
		return
	}
	q.log.Info("payout settled",
		logging.String("payout-id", p.ID),
		logging.Account(p.Account.String()),
		logging.BigUint("amount", p.Amount))
}

// ReplayFailed moves the failed payouts back to pending and queues them. It
// returns the number of payouts replayed.
func (q *Queue) ReplayFailed(ctx context.Context) (int, error) {
	failed, err := q.journal.requeueFailed(ctx, q.now())
	if err != nil {
		return 0, err
	}
	for _, p := range failed {
		select {
		case q.payouts <- p:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if len(failed) > 0 {
		q.log.Info("failed payouts replayed", logging.Int("count", len(failed)))
	}
	return len(failed), nil
}

func (q *Queue) Payout(ctx context.Context, id string) (*Payout, error) {
	return q.journal.get(ctx, id)
}

func (q *Queue) PayoutsByStatus(ctx context.Context, status Status) ([]*Payout, error) {
	return q.journal.byStatus(ctx, status)
}

func (q *Queue) PayoutsForAccount(ctx context.Context, account types.AccountID) ([]*Payout, error) {
	return q.journal.byAccount(ctx, account)
}

// Stop waits for the payout in flight and closes the journal. Queued
// payouts stay pending in the journal.
func (q *Queue) Stop() error {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	q.wg.Wait()
	return q.journal.close()
}
