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

package snapshot

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"sync"

	"code.bizonmatrix.io/bizon/core/state"
	"code.bizonmatrix.io/bizon/logging"
	"code.bizonmatrix.io/bizon/paths"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/sha3"
)

var (
	ErrNoSnapshot       = errors.New("no snapshot available")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrHashMismatch     = errors.New("snapshot hash does not match its payload")
	ErrEngineClosed     = errors.New("snapshot engine is closed")
)

var versionPrefix = []byte("v/")

// StateProvider is the component whose state is snapshotted.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/state_provider_mock.go -package mocks code.bizonmatrix.io/bizon/core/snapshot StateProvider
type StateProvider interface {
	Namespace() string
	GetState() *state.Payload
	LoadState(*state.Payload) error
}

// Snapshot is a versioned and hashed copy of the provider state.
type Snapshot struct {
	Version   uint64          `json:"version"`
	Hash      string          `json:"hash"`
	Namespace string          `json:"namespace"`
	Payload   json.RawMessage `json:"payload"`
}

// State decodes the payload after checking it against its hash.
func (s *Snapshot) State() (*state.Payload, error) {
	if h := hashPayload(s.Payload); h != s.Hash {
		return nil, errors.Wrapf(ErrHashMismatch, "version %d: expected %s, got %s", s.Version, s.Hash, h)
	}
	p := &state.Payload{}
	if err := json.Unmarshal(s.Payload, p); err != nil {
		return nil, errors.Wrapf(err, "could not decode snapshot %d", s.Version)
	}
	return p, nil
}

type Engine struct {
	log *logging.Logger
	cfg Config

	mu       sync.Mutex
	db       *leveldb.DB
	provider StateProvider
	// version of the last snapshot taken or restored.
	version uint64
	// latest version stored, new snapshots are numbered after it even when
	// an older version was restored.
	latest uint64
	// commits since the last snapshot.
	commits uint64
}

// New opens the snapshot database. The provider may be nil for read-only
// uses of the engine.
func New(log *logging.Logger, cfg Config, bizonPaths paths.Paths, provider StateProvider) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	dbPath, err := cfg.validate(bizonPaths)
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg.Storage, dbPath)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:      log,
		cfg:      cfg,
		db:       db,
		provider: provider,
	}

	last, err := e.lastVersion()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	e.version = last
	e.latest = last

	return e, nil
}

func openDB(method, path string) (*leveldb.DB, error) {
	if method == memDB {
		db, err := leveldb.Open(storage.NewMemStorage(), nil)
		return db, errors.Wrap(err, "could not open in-memory snapshot database")
	}

	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter:          filter.NewBloomFilter(10),
		BlockCacher:     opt.NoCacher,
		OpenFilesCacher: opt.NoCacher,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open snapshot database at %s", path)
	}
	return db, nil
}

// ReloadConf updates the internal configuration.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.mu.Lock()
	e.cfg.Level = cfg.Level
	if cfg.Interval > 0 {
		e.cfg.Interval = cfg.Interval
	}
	if cfg.KeepRecent > 0 {
		e.cfg.KeepRecent = cfg.KeepRecent
	}
	e.mu.Unlock()
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

// Version returns the version of the last snapshot taken or restored.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// NextVersion returns the version the next snapshot will be written at.
func (e *Engine) NextVersion() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest + 1
}

// AfterCommit counts a committed operation and takes a snapshot when the
// interval is reached. It returns the snapshot taken, if any.
func (e *Engine) AfterCommit(ctx context.Context) (*Snapshot, error) {
	e.mu.Lock()
	e.commits++
	due := e.commits >= e.cfg.Interval
	e.mu.Unlock()

	if !due {
		return nil, nil
	}
	return e.Snapshot(ctx)
}

// Snapshot persists the current state of the provider as a new version and
// prunes the versions beyond the retention.
func (e *Engine) Snapshot(_ context.Context) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrEngineClosed
	}

	payload, err := json.Marshal(e.provider.GetState())
	if err != nil {
		return nil, errors.Wrap(err, "could not serialise the state")
	}

	snap := &Snapshot{
		Version:   e.latest + 1,
		Hash:      hashPayload(payload),
		Namespace: e.provider.Namespace(),
		Payload:   payload,
	}

	buf, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialise the snapshot")
	}
	if err := e.db.Put(versionKey(snap.Version), buf, &opt.WriteOptions{Sync: true}); err != nil {
		return nil, errors.Wrapf(err, "could not save snapshot %d", snap.Version)
	}

	e.version = snap.Version
	e.latest = snap.Version
	e.commits = 0

	if err := e.prune(); err != nil {
		e.log.Error("could not prune old snapshots", logging.Error(err))
	}

	e.log.Debug("snapshot taken",
		logging.Uint64("version", snap.Version),
		logging.String("hash", snap.Hash))
	return snap, nil
}

// Restore loads the snapshot selected by the configuration into the
// provider. It reports false when there was nothing to restore.
func (e *Engine) Restore(ctx context.Context) (bool, error) {
	if e.cfg.StartVersion == 0 {
		e.log.Info("starting from an empty state")
		return false, nil
	}

	var (
		snap *Snapshot
		err  error
	)
	if e.cfg.StartVersion < 0 {
		snap, err = e.Latest()
		if errors.Is(err, ErrNoSnapshot) {
			e.log.Info("no snapshot to restore")
			return false, nil
		}
	} else {
		snap, err = e.Get(uint64(e.cfg.StartVersion))
	}
	if err != nil {
		return false, err
	}

	if err := e.load(snap); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) load(snap *Snapshot) error {
	if ns := e.provider.Namespace(); snap.Namespace != ns {
		return errors.Errorf("snapshot %d belongs to namespace %q, expected %q", snap.Version, snap.Namespace, ns)
	}

	p, err := snap.State()
	if err != nil {
		return err
	}
	if err := e.provider.LoadState(p); err != nil {
		return err
	}

	e.mu.Lock()
	e.version = snap.Version
	e.commits = 0
	latest := e.latest
	e.mu.Unlock()

	e.log.Info("snapshot restored",
		logging.Uint64("version", snap.Version),
		logging.String("hash", snap.Hash))
	if snap.Version < latest {
		e.log.Warn("restored an older snapshot, the next one is written after the latest",
			logging.Uint64("version", snap.Version),
			logging.Uint64("latest", latest))
	}
	return nil
}

// Latest returns the most recent snapshot.
func (e *Engine) Latest() (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrEngineClosed
	}

	iter := e.db.NewIterator(util.BytesPrefix(versionPrefix), nil)
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, errors.Wrap(err, "could not read the snapshot database")
		}
		return nil, ErrNoSnapshot
	}
	return decodeSnapshot(iter.Value())
}

// Get returns the snapshot of the given version.
func (e *Engine) Get(version uint64) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrEngineClosed
	}

	buf, err := e.db.Get(versionKey(version), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "version %d", version)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not read snapshot %d", version)
	}
	return decodeSnapshot(buf)
}

// Versions lists the stored versions, oldest first.
func (e *Engine) Versions() ([]uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrEngineClosed
	}
	return e.versions()
}

func (e *Engine) versions() ([]uint64, error) {
	iter := e.db.NewIterator(util.BytesPrefix(versionPrefix), nil)
	defer iter.Release()

	out := []uint64{}
	for iter.Next() {
		out = append(out, parseVersionKey(iter.Key()))
	}
	return out, errors.Wrap(iter.Error(), "could not list snapshots")
}

func (e *Engine) lastVersion() (uint64, error) {
	vs, err := e.versions()
	if err != nil || len(vs) == 0 {
		return 0, err
	}
	return vs[len(vs)-1], nil
}

func (e *Engine) prune() error {
	vs, err := e.versions()
	if err != nil {
		return err
	}
	if len(vs) <= e.cfg.KeepRecent {
		return nil
	}

	batch := new(leveldb.Batch)
	for _, v := range vs[:len(vs)-e.cfg.KeepRecent] {
		batch.Delete(versionKey(v))
	}
	return errors.Wrap(e.db.Write(batch, nil), "could not delete old snapshots")
}

func decodeSnapshot(buf []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := json.Unmarshal(buf, snap); err != nil {
		return nil, errors.Wrap(err, "could not decode snapshot")
	}
	return snap, nil
}

// versionKey is big endian so the keys sort by version.
func versionKey(v uint64) []byte {
	k := make([]byte, len(versionPrefix)+8)
	copy(k, versionPrefix)
	binary.BigEndian.PutUint64(k[len(versionPrefix):], v)
	return k
}

func parseVersionKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(versionPrefix):])
}

func hashPayload(payload []byte) string {
	h := sha3.Sum256(payload)
	return hex.EncodeToString(h[:])
}
