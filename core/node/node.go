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

package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.bizonmatrix.io/bizon/config"
	"code.bizonmatrix.io/bizon/core/api"
	"code.bizonmatrix.io/bizon/core/broker"
	"code.bizonmatrix.io/bizon/core/matrix"
	"code.bizonmatrix.io/bizon/core/scheduler"
	"code.bizonmatrix.io/bizon/core/settlement"
	"code.bizonmatrix.io/bizon/core/snapshot"
	"code.bizonmatrix.io/bizon/core/types"
	"code.bizonmatrix.io/bizon/libs/close"
	"code.bizonmatrix.io/bizon/libs/num"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/metrics"
	"code.bizonmatrix.io/bizon/paths"

	"golang.org/x/sync/errgroup"
)

const namedLogger = "node"

var (
	ErrNoOwner           = errors.New("the ledger has no state to restore and no owner is configured")
	ErrClaimNotCommitted = errors.New("claim recorded, its payout waits for the next snapshot")
)

// wallClock supplies the time of the requests.
type wallClock struct{}

func (wallClock) GetTimeNow() time.Time {
	return time.Now().UTC()
}

// Node hosts the ledger. Every operation goes through one mutex, the ledger
// itself is not safe for concurrent use.
type Node struct {
	log *logging.Logger
	cfg config.Config

	mu     sync.Mutex
	matrix *matrix.Engine
	// dirty is true when operations were committed since the last snapshot.
	dirty bool

	broker     *broker.Broker
	snapshot   *snapshot.Engine
	settlement *settlement.Queue
	scheduler  *scheduler.Scheduler
	api        *api.Server
	metrics    *metrics.Server
	closer     *close.Closer
}

// New builds the node and restores the ledger from the latest snapshot. A
// ledger with nothing to restore is initialised with the configured owner.
func New(ctx context.Context, log *logging.Logger, cfg config.Config, bizonPaths paths.Paths, transferer settlement.Transferer) (n *Node, err error) {
	nodeLog := log.Named(namedLogger)

	n = &Node{
		log:    nodeLog,
		cfg:    cfg,
		closer: close.NewCloser(),
	}
	defer func() {
		if err != nil {
			if cerr := n.closer.CloseAll(); cerr != nil {
				nodeLog.Error("could not release the node", logging.Error(cerr))
			}
		}
	}()

	reg, err := metrics.Setup()
	if err != nil {
		return nil, fmt.Errorf("could not set up the metrics: %w", err)
	}
	n.metrics = metrics.NewServer(log, cfg.Metrics, reg)

	n.broker = broker.New(log, cfg.Broker)
	n.broker.Subscribe(metrics.NewSubscriber(), newAuditor(nodeLog))

	n.settlement, err = settlement.New(log, cfg.Settlement, bizonPaths, transferer)
	if err != nil {
		return nil, err
	}
	n.closer.Add("settlement", n.settlement.Stop)

	n.matrix, err = matrix.New(log, cfg.Matrix, wallClock{}, n.broker, nil, &claims{n: n})
	if err != nil {
		return nil, err
	}

	n.snapshot, err = snapshot.New(log, cfg.Snapshot, bizonPaths, n.matrix)
	if err != nil {
		return nil, err
	}
	n.closer.Add("snapshot", n.snapshot.Close)

	if err := n.restore(ctx); err != nil {
		return nil, err
	}

	n.scheduler, err = scheduler.New(ctx, log, cfg.Scheduler, n)
	if err != nil {
		return nil, err
	}

	n.api, err = api.New(ctx, log, cfg.API, n)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Node) restore(ctx context.Context) error {
	restored, err := n.snapshot.Restore(ctx)
	if err != nil {
		return fmt.Errorf("could not restore the ledger: %w", err)
	}

	if !n.matrix.IsInitialised() {
		if len(n.cfg.Owner) == 0 {
			return ErrNoOwner
		}
		if err := n.matrix.Initialise(ctx, types.AccountID(n.cfg.Owner)); err != nil {
			return err
		}
		if err := n.takeSnapshot(ctx); err != nil {
			return err
		}
	} else if len(n.cfg.Owner) > 0 && restored {
		n.log.Debug("owner from the configuration ignored, the ledger was restored")
	}

	if err := n.settlement.Reconcile(ctx, n.snapshot.Version()); err != nil {
		return fmt.Errorf("could not reconcile the payout journal: %w", err)
	}

	stats := n.matrix.Stats()
	metrics.ParticipantsGaugeSet(stats.TotalParticipants)

	n.log.Info("ledger ready",
		logging.Bool("restored", restored),
		logging.Uint64("snapshot-version", n.snapshot.Version()),
		logging.Uint64("participants", stats.TotalParticipants),
		logging.Account(stats.Owner.String()))
	return nil
}

// Run serves the ledger until ctx is done or a server fails.
func (n *Node) Run(ctx context.Context) error {
	if err := n.settlement.Start(ctx); err != nil {
		return err
	}
	n.scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(n.api.Start)
	g.Go(n.metrics.Start)
	g.Go(func() error {
		<-gctx.Done()
		return n.stopServers()
	})

	err := g.Wait()
	n.scheduler.Stop()

	if serr := n.Stop(); serr != nil {
		n.log.Error("could not stop the node cleanly", logging.Error(serr))
	}
	return err
}

func (n *Node) stopServers() error {
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.ShutdownTimeout.Get())
	defer cancel()

	return errors.Join(n.api.Stop(ctx), n.metrics.Stop(ctx))
}

// Stop takes a last snapshot if needed and releases the storage.
func (n *Node) Stop() error {
	n.mu.Lock()
	if n.dirty {
		if err := n.takeSnapshot(context.Background()); err != nil {
			n.log.Error("could not take the final snapshot", logging.Error(err))
		}
	}
	n.mu.Unlock()

	n.log.Info("node stopped")
	return n.closer.CloseAll()
}

// ReloadConf propagates a configuration change to the components.
func (n *Node) ReloadConf(cfg config.Config) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.matrix.ReloadConf(cfg.Matrix)
	n.snapshot.ReloadConf(cfg.Snapshot)
	n.api.ReloadConf(cfg.API)
}

// commit counts a mutating operation, the snapshot is taken when due.
// Must be called with the lock held.
func (n *Node) commit(ctx context.Context) {
	n.dirty = true
	snap, err := n.snapshot.AfterCommit(ctx)
	if err != nil {
		// the operation is committed in memory, the next snapshot will
		// include it.
		n.log.Error("could not snapshot the ledger", logging.Error(err))
		return
	}
	if snap != nil {
		n.committed(ctx, snap)
	}
}

// takeSnapshot snapshots the ledger whatever the interval.
// Must be called with the lock held.
func (n *Node) takeSnapshot(ctx context.Context) error {
	snap, err := n.snapshot.Snapshot(ctx)
	if err != nil {
		return err
	}
	n.committed(ctx, snap)
	return nil
}

// committed releases the payouts staged by the operations the snapshot
// holds.
func (n *Node) committed(ctx context.Context, snap *snapshot.Snapshot) {
	n.dirty = false
	if err := n.settlement.Release(ctx, snap.Version); err != nil {
		// released by the next snapshot, or at the next start.
		n.log.Error("could not release the staged payouts",
			logging.Uint64("snapshot-version", snap.Version),
			logging.Error(err))
	}
}

// claims stages the payouts of the ledger until the snapshot holding the
// zeroed balance is written.
type claims struct {
	n *Node
}

func (c *claims) Transfer(ctx context.Context, account types.AccountID, amount *num.Uint) {
	c.n.settlement.Stage(ctx, account, amount, c.n.snapshot.NextVersion())
}
