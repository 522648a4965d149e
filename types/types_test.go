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

package types_test

import (
	"errors"
	"testing"

	"code.denebprotocol.io/deneb/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetwork(t *testing.T) {
	t.Run("Self index resolves by node id", testSelfIndexResolvesByNodeID)
	t.Run("Validation rejects duplicates and bad endpoints", testNetworkValidation)
}

func TestErrors(t *testing.T) {
	t.Run("Wrapped conflicts match their sentinel", testWrappedConflictsMatchSentinel)
	t.Run("Wrapped path faults match their sentinel", testWrappedPathFaultsMatchSentinel)
}

func testSelfIndexResolvesByNodeID(t *testing.T) {
	net := types.Network{
		Nodes: []types.NodeInfo{
			{ID: 30, IP: "10.0.0.1", RPCPort: 1231},
			{ID: 10, IP: "10.0.0.2", RPCPort: 1231},
			{ID: 20, IP: "10.0.0.3", RPCPort: 1231},
		},
		SelfID: 20,
	}
	require.NoError(t, net.Validate())
	assert.Equal(t, 2, net.SelfIndex())

	net.SelfID = 99
	assert.Equal(t, -1, net.SelfIndex())

	assert.Equal(t, "http://10.0.0.2:1231", net.Nodes[1].Endpoint())
}

func testNetworkValidation(t *testing.T) {
	err := types.Network{}.Validate()
	assert.ErrorIs(t, err, types.ErrEmptyNetwork)

	err = types.Network{
		Nodes: []types.NodeInfo{
			{ID: 1, IP: "10.0.0.1", RPCPort: 1231},
			{ID: 1, IP: "10.0.0.2", RPCPort: 1231},
		},
	}.Validate()
	assert.ErrorIs(t, err, types.ErrInvalidNetwork)

	err = types.Network{
		Nodes: []types.NodeInfo{{ID: 1, IP: "", RPCPort: 1231}},
	}.Validate()
	assert.ErrorIs(t, err, types.ErrInvalidNetwork)
}

func testWrappedConflictsMatchSentinel(t *testing.T) {
	err := types.SnapshotPresentErr(42)
	assert.True(t, errors.Is(err, types.ErrSnapshotPresent))
	assert.Contains(t, err.Error(), "42")

	err = types.SnapshotAbsentErr(7)
	assert.True(t, errors.Is(err, types.ErrSnapshotAbsent))
}

func testWrappedPathFaultsMatchSentinel(t *testing.T) {
	err := types.CannotReadErr("/some/path", errors.New("permission denied"))
	assert.True(t, errors.Is(err, types.ErrCannotRead))
	assert.Contains(t, err.Error(), "/some/path")
	assert.Contains(t, err.Error(), "permission denied")

	err = types.InvalidPathErr("/data", nil)
	assert.True(t, errors.Is(err, types.ErrInvalidPath))
}
