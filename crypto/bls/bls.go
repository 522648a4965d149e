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

// Package bls implements the t-of-n threshold signature scheme the network
// uses to agree on snapshot hashes. Signatures live on the alt_bn128 pairing
// curve: shares and aggregates are G1 points, public keys are G2 points, and
// verification is a pairing equation check. A t-subset of valid shares is
// enough to recover the aggregate signature by Lagrange interpolation.
package bls

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/pkg/errors"
)

var (
	ErrInvalidThreshold = errors.New("threshold must sit between 1 and the participant count")
	ErrNotEnoughShares  = errors.New("not enough signature shares to reach the threshold")
	ErrDuplicateIndex   = errors.New("signer indices must be distinct")
	ErrIndexOutOfRange  = errors.New("signer indices are 1-based and bounded by the participant count")
)

// curveB is the constant term of the curve equation y^2 = x^3 + 3.
var curveB = big.NewInt(3)

// sqrtExp is (P+1)/4. P is congruent to 3 mod 4, so raising a quadratic
// residue to sqrtExp yields one of its square roots.
var sqrtExp = new(big.Int).Rsh(new(big.Int).Add(bn256.P, big.NewInt(1)), 2)

var g2Generator = new(bn256.G2).ScalarBaseMult(big.NewInt(1))

// Threshold returns the number of signature shares needed to recover an
// aggregate over a group of n participants: two thirds of the group, as
// (2n+2)/3 rounded down.
func Threshold(n int) int {
	return (2*n + 2) / 3
}

// Suite holds the t-of-n parameters of one signing group.
type Suite struct {
	t int
	n int
}

func NewSuite(t, n int) (*Suite, error) {
	if t < 1 || n < 1 || t > n {
		return nil, errors.Wrapf(ErrInvalidThreshold, "t=%d n=%d", t, n)
	}
	return &Suite{t: t, n: n}, nil
}

func (s *Suite) Threshold() int {
	return s.t
}

func (s *Suite) Participants() int {
	return s.n
}

// HashToG1 maps a 32-byte hash onto the curve. The candidate abscissa starts
// at the hash value reduced into the field and walks upwards until the curve
// equation has a root. Roughly every second candidate works, so the walk is
// short, and both signer and verifier land on the same point.
func HashToG1(hash common.Hash) (*bn256.G1, error) {
	x := new(big.Int).Mod(new(big.Int).SetBytes(hash.Bytes()), bn256.P)

	one := big.NewInt(1)
	ySqr := new(big.Int)
	y := new(big.Int)
	tmp := new(big.Int)
	for {
		ySqr.Mul(x, x)
		ySqr.Mul(ySqr, x)
		ySqr.Add(ySqr, curveB)
		ySqr.Mod(ySqr, bn256.P)

		y.Exp(ySqr, sqrtExp, bn256.P)
		tmp.Mul(y, y)
		tmp.Mod(tmp, bn256.P)
		if tmp.Cmp(ySqr) == 0 {
			break
		}

		x.Add(x, one)
		x.Mod(x, bn256.P)
	}

	buf := make([]byte, 64)
	x.FillBytes(buf[:32])
	y.FillBytes(buf[32:])

	point := new(bn256.G1)
	if _, err := point.Unmarshal(buf); err != nil {
		return nil, errors.Wrap(err, "couldn't map the hash onto the curve")
	}
	return point, nil
}

// Sign produces this signer's share for the given hash. The same function
// signs with a full secret key, which is how aggregates would be produced if
// the group key ever existed in one place.
func Sign(hash common.Hash, secret *big.Int) (*bn256.G1, error) {
	point, err := HashToG1(hash)
	if err != nil {
		return nil, err
	}
	return point.ScalarMult(point, new(big.Int).Mod(secret, bn256.Order)), nil
}

// Verify checks a signature, share or aggregate, against the matching public
// key. It holds when e(sig, g2) == e(H(hash), pub), i.e. when sig is H(hash)
// scaled by the secret behind pub.
func (s *Suite) Verify(hash common.Hash, sig *bn256.G1, pub *bn256.G2) bool {
	if sig == nil || pub == nil {
		return false
	}

	point, err := HashToG1(hash)
	if err != nil {
		return false
	}

	return bn256.PairingCheck(
		[]*bn256.G1{new(bn256.G1).Neg(sig), point},
		[]*bn256.G2{g2Generator, pub},
	)
}
