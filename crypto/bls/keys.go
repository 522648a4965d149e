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

// Public keys cross configuration files and the wire as four decimal strings
// holding the G2 coordinates in the order X.real, X.imag, Y.real, Y.imag.
// The curve library marshals the imaginary half of each coordinate first, so
// the codec below swaps the halves of every pair.

const fieldElementSize = 32

// PublicKeyFromParts assembles a G2 public key from its four-string form and
// rejects coordinates that don't sit on the curve.
func PublicKeyFromParts(parts [4]string) (*bn256.G2, error) {
	buf := make([]byte, 4*fieldElementSize)
	for i, partIdx := range [4]int{1, 0, 3, 2} {
		element, err := parseFieldElement(parts[partIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "public key part %d", partIdx)
		}
		element.FillBytes(buf[i*fieldElementSize : (i+1)*fieldElementSize])
	}

	pub := new(bn256.G2)
	if _, err := pub.Unmarshal(buf); err != nil {
		return nil, errors.Wrap(err, "couldn't unmarshal the public key")
	}
	return pub, nil
}

// PublicKeyParts is the inverse of PublicKeyFromParts.
func PublicKeyParts(pub *bn256.G2) [4]string {
	raw := pub.Marshal()

	var parts [4]string
	for i, partIdx := range [4]int{1, 0, 3, 2} {
		element := new(big.Int).SetBytes(raw[i*fieldElementSize : (i+1)*fieldElementSize])
		parts[partIdx] = element.String()
	}
	return parts
}

// SignatureFromCoords assembles a G1 signature from the decimal affine
// coordinates it travels the wire as.
func SignatureFromCoords(x, y string) (*bn256.G1, error) {
	buf := make([]byte, 2*fieldElementSize)

	xElement, err := parseFieldElement(x)
	if err != nil {
		return nil, errors.Wrap(err, "signature abscissa")
	}
	xElement.FillBytes(buf[:fieldElementSize])

	yElement, err := parseFieldElement(y)
	if err != nil {
		return nil, errors.Wrap(err, "signature ordinate")
	}
	yElement.FillBytes(buf[fieldElementSize:])

	sig := new(bn256.G1)
	if _, err := sig.Unmarshal(buf); err != nil {
		return nil, errors.Wrap(err, "couldn't unmarshal the signature")
	}
	return sig, nil
}

// SignatureCoords is the inverse of SignatureFromCoords.
func SignatureCoords(sig *bn256.G1) (x, y string) {
	raw := sig.Marshal()
	return new(big.Int).SetBytes(raw[:fieldElementSize]).String(),
		new(big.Int).SetBytes(raw[fieldElementSize:]).String()
}

// IsIdentity reports whether the point is the group identity, which encodes
// as all zeroes. No meaningful signature ever is.
func IsIdentity(sig *bn256.G1) bool {
	for _, b := range sig.Marshal() {
		if b != 0 {
			return false
		}
	}
	return true
}

func parseFieldElement(s string) (*big.Int, error) {
	element, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("%q is not a decimal number", s)
	}
	if element.Sign() < 0 || element.BitLen() > 8*fieldElementSize {
		return nil, errors.Errorf("%q is out of the field's range", s)
	}
	return element, nil
}
