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

package bls

import (
	"crypto/rand"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/pkg/errors"
)

// KeySet is one dealt t-of-n signing group. The share at position i belongs
// to the signer with 1-based index i+1.
type KeySet struct {
	SecretShares    []*big.Int
	PublicShares    []*bn256.G2
	CommonPublicKey *bn256.G2
}

// GenerateShares deals a fresh key set from a random polynomial of degree
// t-1. Share i is the polynomial evaluated at i, the common public key hides
// the polynomial's constant term. Production networks run a distributed key
// generation ceremony instead, so no machine ever holds the whole
// polynomial; this dealer provisions development and test networks.
func GenerateShares(t, n int) (*KeySet, error) {
	if _, err := NewSuite(t, n); err != nil {
		return nil, err
	}

	poly := make([]*big.Int, t)
	for i := range poly {
		coeff, err := rand.Int(rand.Reader, bn256.Order)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't draw a polynomial coefficient")
		}
		poly[i] = coeff
	}

	set := &KeySet{
		SecretShares:    make([]*big.Int, n),
		PublicShares:    make([]*bn256.G2, n),
		CommonPublicKey: new(bn256.G2).ScalarBaseMult(poly[0]),
	}
	for i := 1; i <= n; i++ {
		share := evaluatePolynomial(poly, int64(i))
		set.SecretShares[i-1] = share
		set.PublicShares[i-1] = new(bn256.G2).ScalarBaseMult(share)
	}
	return set, nil
}

func evaluatePolynomial(coeffs []*big.Int, at int64) *big.Int {
	x := big.NewInt(at)
	result := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, coeffs[i])
		result.Mod(result, bn256.Order)
	}
	return result
}
