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

package bls_test

import (
	"math/big"
	"testing"

	"code.denebprotocol.io/deneb/crypto/bls"
	vgcrypto "code.denebprotocol.io/deneb/libs/crypto"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdScheme(t *testing.T) {
	t.Run("Computes the threshold from the group size", testComputesThresholdFromGroupSize)
	t.Run("Rejects invalid suite parameters", testRejectsInvalidSuiteParameters)
	t.Run("Signs and verifies with a dealt share", testSignsAndVerifiesWithDealtShare)
	t.Run("Rejects forged shares", testRejectsForgedShares)
	t.Run("Recovers the same aggregate from any threshold subset", testRecoversAggregateFromAnySubset)
	t.Run("Validates interpolation indices", testValidatesInterpolationIndices)
	t.Run("Maps hashes onto distinct curve points", testMapsHashesOntoDistinctCurvePoints)
	t.Run("Round trips public key parts", testRoundTripsPublicKeyParts)
	t.Run("Round trips signature coordinates", testRoundTripsSignatureCoordinates)
	t.Run("Flags the identity point", testFlagsIdentityPoint)
}

func dealKeys(t *testing.T, threshold, participants int) (*bls.Suite, *bls.KeySet) {
	t.Helper()

	suite, err := bls.NewSuite(threshold, participants)
	require.NoError(t, err)
	set, err := bls.GenerateShares(threshold, participants)
	require.NoError(t, err)
	return suite, set
}

func testComputesThresholdFromGroupSize(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 2, 4: 3, 13: 9, 16: 11} {
		assert.Equal(t, want, bls.Threshold(n), "n=%d", n)
	}
}

func testRejectsInvalidSuiteParameters(t *testing.T) {
	for _, params := range [][2]int{{0, 4}, {5, 4}, {1, 0}, {-1, 4}} {
		_, err := bls.NewSuite(params[0], params[1])
		assert.ErrorIs(t, err, bls.ErrInvalidThreshold, "t=%d n=%d", params[0], params[1])
	}

	suite, err := bls.NewSuite(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, suite.Threshold())
	assert.Equal(t, 4, suite.Participants())
}

func testSignsAndVerifiesWithDealtShare(t *testing.T) {
	suite, set := dealKeys(t, 3, 4)
	hash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 42")))

	share, err := bls.Sign(hash, set.SecretShares[0])
	require.NoError(t, err)

	assert.True(t, suite.Verify(hash, share, set.PublicShares[0]))

	otherHash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 43")))
	assert.False(t, suite.Verify(otherHash, share, set.PublicShares[0]))
	assert.False(t, suite.Verify(hash, share, set.PublicShares[1]))
	assert.False(t, suite.Verify(hash, nil, set.PublicShares[0]))
	assert.False(t, suite.Verify(hash, share, nil))
}

func testRejectsForgedShares(t *testing.T) {
	suite, set := dealKeys(t, 3, 4)
	hash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 42")))

	// A share lifted from another signer doesn't verify under this one's key.
	stolen, err := bls.Sign(hash, set.SecretShares[1])
	require.NoError(t, err)
	assert.False(t, suite.Verify(hash, stolen, set.PublicShares[0]))

	// Neither does a share cooked up from a secret outside the group.
	_, rogue := dealKeys(t, 3, 4)
	forged, err := bls.Sign(hash, rogue.SecretShares[0])
	require.NoError(t, err)
	assert.False(t, suite.Verify(hash, forged, set.PublicShares[0]))
}

func testRecoversAggregateFromAnySubset(t *testing.T) {
	suite, set := dealKeys(t, 3, 4)
	hash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 42")))

	shares := make([]*bn256.G1, 4)
	for i, secret := range set.SecretShares {
		share, err := bls.Sign(hash, secret)
		require.NoError(t, err)
		shares[i] = share
	}

	var aggregates [][]byte
	for _, indices := range [][]int{{1, 2, 3}, {2, 3, 4}, {1, 3, 4}, {4, 2, 1}} {
		coeffs, err := suite.LagrangeCoeffs(indices)
		require.NoError(t, err)

		subset := make([]*bn256.G1, len(indices))
		for i, idx := range indices {
			subset[i] = shares[idx-1]
		}

		aggregate, err := suite.RecoverSignature(subset, coeffs)
		require.NoError(t, err)
		require.True(t, suite.Verify(hash, aggregate, set.CommonPublicKey))

		aggregates = append(aggregates, aggregate.Marshal())
	}

	for _, other := range aggregates[1:] {
		assert.Equal(t, aggregates[0], other)
	}

	// A lone share never stands in for the aggregate.
	assert.False(t, suite.Verify(hash, shares[0], set.CommonPublicKey))
}

func testValidatesInterpolationIndices(t *testing.T) {
	suite, err := bls.NewSuite(3, 4)
	require.NoError(t, err)

	_, err = suite.LagrangeCoeffs([]int{1, 2})
	assert.ErrorIs(t, err, bls.ErrNotEnoughShares)

	_, err = suite.LagrangeCoeffs([]int{1, 2, 2})
	assert.ErrorIs(t, err, bls.ErrDuplicateIndex)

	_, err = suite.LagrangeCoeffs([]int{0, 1, 2})
	assert.ErrorIs(t, err, bls.ErrIndexOutOfRange)
	_, err = suite.LagrangeCoeffs([]int{1, 2, 5})
	assert.ErrorIs(t, err, bls.ErrIndexOutOfRange)

	// Extra indices beyond the threshold are ignored.
	all, err := suite.LagrangeCoeffs([]int{1, 2, 3, 4})
	require.NoError(t, err)
	exact, err := suite.LagrangeCoeffs([]int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, exact, all)

	_, err = suite.RecoverSignature(make([]*bn256.G1, 2), make([]*big.Int, 2))
	assert.ErrorIs(t, err, bls.ErrNotEnoughShares)
}

func testMapsHashesOntoDistinctCurvePoints(t *testing.T) {
	first := common.BytesToHash(vgcrypto.Hash([]byte("one")))
	second := common.BytesToHash(vgcrypto.Hash([]byte("two")))

	pointA, err := bls.HashToG1(first)
	require.NoError(t, err)
	pointB, err := bls.HashToG1(first)
	require.NoError(t, err)
	assert.Equal(t, pointA.Marshal(), pointB.Marshal())

	pointC, err := bls.HashToG1(second)
	require.NoError(t, err)
	assert.NotEqual(t, pointA.Marshal(), pointC.Marshal())
}

func testRoundTripsPublicKeyParts(t *testing.T) {
	_, set := dealKeys(t, 3, 4)

	parts := bls.PublicKeyParts(set.CommonPublicKey)
	restored, err := bls.PublicKeyFromParts(parts)
	require.NoError(t, err)
	assert.Equal(t, set.CommonPublicKey.Marshal(), restored.Marshal())

	parts[2] = "not-a-number"
	_, err = bls.PublicKeyFromParts(parts)
	assert.Error(t, err)

	_, err = bls.PublicKeyFromParts([4]string{"1", "2", "3", "4"})
	assert.Error(t, err)
}

func testRoundTripsSignatureCoordinates(t *testing.T) {
	_, set := dealKeys(t, 3, 4)
	hash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 42")))

	share, err := bls.Sign(hash, set.SecretShares[2])
	require.NoError(t, err)

	x, y := bls.SignatureCoords(share)
	restored, err := bls.SignatureFromCoords(x, y)
	require.NoError(t, err)
	assert.Equal(t, share.Marshal(), restored.Marshal())

	_, err = bls.SignatureFromCoords(x, "12345")
	assert.Error(t, err)
	_, err = bls.SignatureFromCoords("-1", y)
	assert.Error(t, err)
}

func testFlagsIdentityPoint(t *testing.T) {
	_, set := dealKeys(t, 3, 4)
	hash := common.BytesToHash(vgcrypto.Hash([]byte("state at block 42")))

	share, err := bls.Sign(hash, set.SecretShares[0])
	require.NoError(t, err)

	assert.False(t, bls.IsIdentity(share))
	assert.True(t, bls.IsIdentity(new(bn256.G1).ScalarBaseMult(big.NewInt(0))))
}
