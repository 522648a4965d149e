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

package crypto

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashLen is the size in bytes of every digest produced by this package.
const HashLen = 32

// Hash returns the sha3-256 digest of data. This is the digest used for all
// snapshot content addressing across the node.
func Hash(data []byte) []byte {
	hasher := sha3.New256()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// NewHasher returns a fresh sha3-256 running hash for callers that fold many
// inputs into one digest.
func NewHasher() hash.Hash {
	return sha3.New256()
}
