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
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/pkg/errors"
)

// LagrangeCoeffs computes the interpolation coefficients for recovering the
// group polynomial at zero from the signers at the given 1-based indices. At
// least t indices must be supplied, only the first t are used, and the result
// always has exactly t entries.
func (s *Suite) LagrangeCoeffs(indices []int) ([]*big.Int, error) {
	if len(indices) < s.t {
		return nil, errors.Wrapf(ErrNotEnoughShares, "%d indices, threshold %d", len(indices), s.t)
	}

	indices = indices[:s.t]
	for i, idx := range indices {
		if idx < 1 || idx > s.n {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d with n=%d", idx, s.n)
		}
		for _, other := range indices[:i] {
			if other == idx {
				return nil, errors.Wrapf(ErrDuplicateIndex, "index %d", idx)
			}
		}
	}

	coeffs := make([]*big.Int, s.t)
	num := new(big.Int)
	den := new(big.Int)
	diff := new(big.Int)
	for i, xi := range indices {
		num.SetInt64(1)
		den.SetInt64(1)
		for j, xj := range indices {
			if j == i {
				continue
			}
			num.Mul(num, big.NewInt(int64(xj)))
			num.Mod(num, bn256.Order)

			diff.SetInt64(int64(xj - xi))
			den.Mul(den, diff)
			den.Mod(den, bn256.Order)
		}

		// den is a product of non-zero field elements, so it has an inverse.
		coeff := new(big.Int).ModInverse(den, bn256.Order)
		coeff.Mul(coeff, num)
		coeff.Mod(coeff, bn256.Order)
		coeffs[i] = coeff
	}

	return coeffs, nil
}

// RecoverSignature folds t coefficient-scaled signature shares into the
// aggregate signature of the group. Shares and coefficients pair up by
// position, so both slices must come from the same index order.
func (s *Suite) RecoverSignature(shares []*bn256.G1, coeffs []*big.Int) (*bn256.G1, error) {
	if len(shares) < s.t || len(coeffs) < s.t {
		return nil, errors.Wrapf(ErrNotEnoughShares, "%d shares and %d coefficients, threshold %d", len(shares), len(coeffs), s.t)
	}

	aggregate := new(bn256.G1).ScalarBaseMult(big.NewInt(0))
	scaled := new(bn256.G1)
	for i := 0; i < s.t; i++ {
		scaled.ScalarMult(shares[i], coeffs[i])
		aggregate.Add(aggregate, scaled)
	}
	return aggregate, nil
}
