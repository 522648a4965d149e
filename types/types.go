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

package types

import (
	"fmt"
)

// VolumeKind says how a volume's content contributes to a snapshot hash.
type VolumeKind string

const (
	// VolumeKindDatabase is a volume holding a key-value store; it is hashed
	// through the store's own digest.
	VolumeKindDatabase VolumeKind = "database"
	// VolumeKindFiles is a volume holding an arbitrary file tree; it is
	// hashed by recursive content traversal.
	VolumeKindFiles VolumeKind = "files"
)

// Volume describes one independently snapshot-able storage unit owned by the
// node process.
type Volume struct {
	Name string
	Kind VolumeKind
	// DatabasePath is the store root inside a database volume, relative to
	// the volume root. Empty means the volume root itself.
	DatabasePath string
}

func (v Volume) Validate() error {
	if v.Name == "" {
		return ErrInvalidVolume
	}
	switch v.Kind {
	case VolumeKindDatabase, VolumeKindFiles:
		return nil
	default:
		return fmt.Errorf("volume %q: unknown kind %q: %w", v.Name, v.Kind, ErrInvalidVolume)
	}
}

// NodeInfo identifies one node of the network.
type NodeInfo struct {
	ID      uint64
	IP      string
	RPCPort uint16
}

// Endpoint is the node's JSON-RPC base URL.
func (n NodeInfo) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", n.IP, n.RPCPort)
}

// Network is the read-only description of the node set this node belongs to.
// The order of Nodes is fixed network-wide: a node's position in the list is
// its peer ordinal, and ordinal+1 is its share index in the threshold scheme.
type Network struct {
	Nodes  []NodeInfo
	SelfID uint64
	// CommonPublicKey is the network's threshold public key, as the four
	// decimal field-element strings published in the chain parameters.
	CommonPublicKey [4]string
}

// SelfIndex returns this node's position in the node list, or -1 when the
// node is not part of the network (an observer).
func (n Network) SelfIndex() int {
	for i, node := range n.Nodes {
		if node.ID == n.SelfID {
			return i
		}
	}
	return -1
}

func (n Network) Validate() error {
	if len(n.Nodes) == 0 {
		return ErrEmptyNetwork
	}
	seen := make(map[uint64]struct{}, len(n.Nodes))
	for _, node := range n.Nodes {
		if _, ok := seen[node.ID]; ok {
			return fmt.Errorf("duplicate node id %d: %w", node.ID, ErrInvalidNetwork)
		}
		seen[node.ID] = struct{}{}
		if node.IP == "" || node.RPCPort == 0 {
			return fmt.Errorf("node %d has no usable endpoint: %w", node.ID, ErrInvalidNetwork)
		}
	}
	return nil
}
