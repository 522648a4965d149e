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

package snapshot

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	vgcrypto "code.denebprotocol.io/deneb/libs/crypto"
	vgfs "code.denebprotocol.io/deneb/libs/fs"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Sidecar files sit next to the entry they describe and are never folded
// into any digest themselves.
const hashSidecarSuffix = "._hash"

type sidecarStatus int

const (
	sidecarAbsent sidecarStatus = iota
	sidecarValid
	sidecarCorrupt
)

// HashFileTree computes the digest of a file volume rooted at root. Entries
// are folded in lexical walk order, paths hashed relative to root, so the
// digest survives relocating the volume. Without checking, files seen for
// the first time only seed their sidecar digest and are left out of this
// pass, content may still be arriving; with checking, everything is
// recomputed from current content and the sidecars are overwritten.
func HashFileTree(log *logging.Logger, root string, checking bool) (common.Hash, error) {
	h := vgcrypto.NewHasher()
	if err := foldFileTree(log, h, root, checking); err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(h.Sum(nil)), nil
}

func foldFileTree(log *logging.Logger, w io.Writer, root string, checking bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return types.CannotReadErr(path, walkErr)
		}
		if path == root {
			return nil
		}
		if strings.HasSuffix(d.Name(), hashSidecarSuffix) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return types.InvalidPathErr(path, err)
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			return foldEntry(w, path, checking, func() (common.Hash, error) {
				return dirDigest(rel), nil
			})
		case d.Type().IsRegular():
			return foldEntry(w, path, checking, func() (common.Hash, error) {
				return fileDigest(path, rel)
			})
		default:
			if log.IsDebug() {
				log.Debug("entry left out of the volume hash", logging.Path(path))
			}
			return nil
		}
	})
}

func foldEntry(w io.Writer, path string, checking bool, compute func() (common.Hash, error)) error {
	sidecar := path + hashSidecarSuffix

	if checking {
		digest, err := compute()
		if err != nil {
			return err
		}
		if err := writeSidecar(sidecar, digest); err != nil {
			return err
		}
		_, err = w.Write(digest.Bytes())
		return err
	}

	stored, status, err := readSidecar(sidecar)
	if err != nil {
		return err
	}
	switch status {
	case sidecarValid:
		_, err := w.Write(stored.Bytes())
		return err
	case sidecarCorrupt:
		digest, err := compute()
		if err != nil {
			return err
		}
		if err := writeSidecar(sidecar, digest); err != nil {
			return err
		}
		_, err = w.Write(digest.Bytes())
		return err
	default:
		// first sight of this entry: seed the sidecar, fold it next pass
		digest, err := compute()
		if err != nil {
			return err
		}
		return writeSidecar(sidecar, digest)
	}
}

func fileDigest(path, rel string) (common.Hash, error) {
	content := vgcrypto.NewHasher()
	f, err := os.Open(path)
	if err != nil {
		return common.Hash{}, types.CannotReadErr(path, err)
	}
	if _, err := io.Copy(content, f); err != nil {
		_ = f.Close()
		return common.Hash{}, types.CannotReadErr(path, err)
	}
	_ = f.Close()

	h := vgcrypto.NewHasher()
	h.Write(vgcrypto.Hash([]byte(rel)))
	h.Write(content.Sum(nil))
	return common.BytesToHash(h.Sum(nil)), nil
}

func dirDigest(rel string) common.Hash {
	return common.BytesToHash(vgcrypto.Hash([]byte(rel)))
}

func readSidecar(path string) (common.Hash, sidecarStatus, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return common.Hash{}, sidecarAbsent, nil
	}
	if err != nil {
		return common.Hash{}, sidecarAbsent, types.CannotReadErr(path, err)
	}

	raw := common.FromHex(strings.TrimSpace(string(data)))
	if len(raw) != common.HashLength {
		return common.Hash{}, sidecarCorrupt, nil
	}
	return common.BytesToHash(raw), sidecarValid, nil
}

func writeSidecar(path string, digest common.Hash) error {
	if err := vgfs.WriteFile(path, []byte(digest.Hex()+"\n")); err != nil {
		return types.CannotWriteErr(path, err)
	}
	return nil
}
