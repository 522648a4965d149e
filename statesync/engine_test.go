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

package statesync_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/statesync"
	"code.denebprotocol.io/deneb/statesync/mocks"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	t.Run("Catches up from the first healthy peer", testEngineCatchesUpFromTheFirstHealthyPeer)
	t.Run("Falls back on a peer delivering the wrong hash", testEngineFallsBackOnWrongHash)
	t.Run("Fails once every peer is exhausted", testEngineFailsOnceEveryPeerIsExhausted)
	t.Run("Fails when the network does not agree", testEngineFailsWithoutAgreement)
	t.Run("Surfaces an agreement round failure", testEngineSurfacesAgreementRoundFailure)
	t.Run("Discards only the diff on a failed import", testEngineDiscardsOnlyTheDiffOnFailedImport)
	t.Run("Stops between peers when cancelled", testEngineStopsBetweenPeersWhenCancelled)
}

const testBlock = uint64(42)

var testEndpoints = []string{"http://10.1.0.1:1237", "http://10.1.0.2:1237"}

type testEngine struct {
	*statesync.Engine

	snapshots  *mocks.MockSnapshotManager
	agent      *mocks.MockHashAgent
	downloader *mocks.MockDownloader

	diffPath  string
	votedHash common.Hash
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	snapshots := mocks.NewMockSnapshotManager(ctrl)
	agent := mocks.NewMockHashAgent(ctrl)
	downloader := mocks.NewMockDownloader(ctrl)

	engine := statesync.New(logging.NewTestLogger(), statesync.NewDefaultConfig(), snapshots, agent, downloader)

	return &testEngine{
		Engine:     engine,
		snapshots:  snapshots,
		agent:      agent,
		downloader: downloader,
		diffPath:   filepath.Join(t.TempDir(), "42"),
		votedHash:  common.HexToHash("0x2a"),
	}
}

// expectAgreement scripts a successful hash agreement round handing back the
// given endpoints.
func (te *testEngine) expectAgreement(ctx context.Context, endpoints []string) {
	aggregate := new(bn256.G1).ScalarBaseMult(big.NewInt(1))

	te.agent.EXPECT().NodesToDownloadFrom(ctx, testBlock).Return(endpoints, nil)
	te.agent.EXPECT().VotedHash().Return(te.votedHash, aggregate)
	te.snapshots.EXPECT().DiffPath(testBlock).Return(te.diffPath)
}

// writeDiff makes a mocked download materialise a diff file, the way the
// real downloader would.
func writeDiff(data string) func(context.Context, string, uint64, string) error {
	return func(_ context.Context, _ string, _ uint64, dest string) error {
		return os.WriteFile(dest, []byte(data), 0o600)
	}
}

func testEngineCatchesUpFromTheFirstHealthyPeer(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	te.expectAgreement(ctx, testEndpoints)
	gomock.InOrder(
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[0], testBlock, te.diffPath).DoAndReturn(writeDiff("diff")),
		te.snapshots.EXPECT().ImportDiff(gomock.Any(), testBlock).Return(nil),
		te.snapshots.EXPECT().ComputeSnapshotHash(gomock.Any(), testBlock, true).Return(nil),
		te.snapshots.EXPECT().SnapshotHash(testBlock).Return(te.votedHash, nil),
	)

	require.NoError(t, te.CatchUp(ctx, testBlock))

	// The verified diff stays around for other nodes to download.
	assert.FileExists(t, te.diffPath)
}

func testEngineFallsBackOnWrongHash(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	wrongHash := common.HexToHash("0x66")

	te.expectAgreement(ctx, testEndpoints)
	gomock.InOrder(
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[0], testBlock, te.diffPath).DoAndReturn(writeDiff("bad")),
		te.snapshots.EXPECT().ImportDiff(gomock.Any(), testBlock).Return(nil),
		te.snapshots.EXPECT().ComputeSnapshotHash(gomock.Any(), testBlock, true).Return(nil),
		te.snapshots.EXPECT().SnapshotHash(testBlock).Return(wrongHash, nil),
		te.snapshots.EXPECT().RemoveSnapshot(gomock.Any(), testBlock).Return(nil),
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[1], testBlock, te.diffPath).DoAndReturn(writeDiff("good")),
		te.snapshots.EXPECT().ImportDiff(gomock.Any(), testBlock).Return(nil),
		te.snapshots.EXPECT().ComputeSnapshotHash(gomock.Any(), testBlock, true).Return(nil),
		te.snapshots.EXPECT().SnapshotHash(testBlock).Return(te.votedHash, nil),
	)

	require.NoError(t, te.CatchUp(ctx, testBlock))

	data, err := os.ReadFile(te.diffPath)
	require.NoError(t, err)
	assert.Equal(t, "good", string(data))
}

func testEngineFailsOnceEveryPeerIsExhausted(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	wrongHash := common.HexToHash("0x66")

	te.expectAgreement(ctx, testEndpoints)
	gomock.InOrder(
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[0], testBlock, te.diffPath).Return(errors.New("connection reset")),
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[1], testBlock, te.diffPath).DoAndReturn(writeDiff("bad")),
		te.snapshots.EXPECT().ImportDiff(gomock.Any(), testBlock).Return(nil),
		te.snapshots.EXPECT().ComputeSnapshotHash(gomock.Any(), testBlock, true).Return(nil),
		te.snapshots.EXPECT().SnapshotHash(testBlock).Return(wrongHash, nil),
		te.snapshots.EXPECT().RemoveSnapshot(gomock.Any(), testBlock).Return(nil),
	)

	err := te.CatchUp(ctx, testBlock)

	require.ErrorIs(t, err, statesync.ErrSnapshotUnverified)
	assert.NoFileExists(t, te.diffPath)
}

func testEngineFailsWithoutAgreement(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	te.agent.EXPECT().NodesToDownloadFrom(ctx, testBlock).Return([]string{}, nil)

	err := te.CatchUp(ctx, testBlock)

	require.ErrorIs(t, err, statesync.ErrNoAgreedHash)
}

func testEngineSurfacesAgreementRoundFailure(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()
	roundErr := errors.New("signature share verification failed")

	te.agent.EXPECT().NodesToDownloadFrom(ctx, testBlock).Return(nil, roundErr)

	err := te.CatchUp(ctx, testBlock)

	require.ErrorIs(t, err, roundErr)
	assert.Contains(t, err.Error(), "hash agreement round failed")
}

func testEngineDiscardsOnlyTheDiffOnFailedImport(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	// No RemoveSnapshot call: a failed import leaves no snapshot behind.
	te.expectAgreement(ctx, testEndpoints[:1])
	gomock.InOrder(
		te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[0], testBlock, te.diffPath).DoAndReturn(writeDiff("bad")),
		te.snapshots.EXPECT().ImportDiff(gomock.Any(), testBlock).Return(errors.New("corrupt archive")),
	)

	err := te.CatchUp(ctx, testBlock)

	require.ErrorIs(t, err, statesync.ErrSnapshotUnverified)
	assert.NoFileExists(t, te.diffPath)
}

func testEngineStopsBetweenPeersWhenCancelled(t *testing.T) {
	te := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	te.expectAgreement(ctx, testEndpoints)
	te.downloader.EXPECT().DownloadDiff(gomock.Any(), testEndpoints[0], testBlock, te.diffPath).DoAndReturn(
		func(context.Context, string, uint64, string) error {
			cancel()
			return errors.New("connection reset")
		})

	err := te.CatchUp(ctx, testBlock)

	require.ErrorIs(t, err, context.Canceled)
}
