// Copyright (C) 2024 Deneb Labs Limited
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

// Package kvstore wraps the goleveldb engine backing database volumes. Its
// one domain-specific addition over a plain key-value API is HashBase, the
// digest of the whole store that snapshot hashing folds in for database
// volumes.
package kvstore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	vgcrypto "code.denebprotocol.io/deneb/libs/crypto"
	"code.denebprotocol.io/deneb/logging"
)

const namedLogger = "kvstore"

// ErrKeyNotFound is returned by Get on a missing key, so callers never deal
// in engine errors.
var ErrKeyNotFound = errors.New("key not found")

// Store is a single goleveldb database rooted at a directory inside a
// database volume.
type Store struct {
	log  *logging.Logger
	path string
	db   *leveldb.DB
}

// Open opens, or creates, the store at path for reading and writing. A
// corrupted store is recovered rather than refused, the engine rebuilds its
// manifest from the table files.
func Open(log *logging.Logger, path string) (*Store, error) {
	log = log.Named(namedLogger)

	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter: filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*ldberrors.ErrCorrupted); corrupted {
		log.Warn("recovering corrupted store", logging.Path(path))
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open store at %s", path)
	}

	return &Store{log: log, path: path, db: db}, nil
}

// OpenReadOnly opens an existing store without taking the write lock.
func OpenReadOnly(log *logging.Logger, path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter:         filter.NewBloomFilter(10),
		ReadOnly:       true,
		ErrorIfMissing: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open store at %s", path)
	}

	return &Store{log: log.Named(namedLogger), path: path, db: db}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

func (s *Store) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *Store) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// HashBase digests every key/value pair in the store into one sha3-256 sum.
// The engine iterates in sorted key order, so the digest depends only on the
// stored pairs, never on the order they were written in.
func (s *Store) HashBase() (common.Hash, error) {
	h := vgcrypto.NewHasher()

	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	pairs := 0
	for iter.Next() {
		h.Write(iter.Key())
		h.Write(iter.Value())
		pairs++
	}
	if err := iter.Error(); err != nil {
		return common.Hash{}, errors.Wrap(err, "couldn't walk the store")
	}

	if s.log.IsDebug() {
		s.log.Debug("hashed store",
			logging.Path(s.path),
			logging.Int("pairs", pairs),
		)
	}

	return common.BytesToHash(h.Sum(nil)), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
