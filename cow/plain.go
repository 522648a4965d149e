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

package cow

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"code.denebprotocol.io/deneb/logging"

	"github.com/klauspost/compress/gzip"
)

// plain emulates copy-on-write primitives on any filesystem: clones are
// recursive copies sealed read-only, and send/receive streams are gzip
// members (one per volume, named after it) each wrapping a tar of the
// volume tree. Incremental send has no emulation and is refused.
type plain struct {
	log *logging.Logger
}

func newPlain(log *logging.Logger) *plain {
	return &plain{log: log}
}

func plainErr(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}

func (p *plain) Create(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return plainErr("create", err)
	}
	return nil
}

func (p *plain) Snapshot(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return plainErr("snapshot", fmt.Errorf("destination %s already exists", dst))
	}
	if err := copyTree(ctx, src, dst); err != nil {
		return plainErr("snapshot", err)
	}
	if err := sealTree(dst, true); err != nil {
		return plainErr("snapshot", err)
	}
	if p.log.IsDebug() {
		p.log.Debug("cloned volume", logging.Path(src), logging.String("destination", dst))
	}
	return nil
}

func (p *plain) Delete(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return plainErr("delete", err)
	}
	// Write bits must come back before RemoveAll can empty the tree.
	if err := sealTree(path, false); err != nil {
		return plainErr("delete", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return plainErr("delete", err)
	}
	return nil
}

func (p *plain) Send(ctx context.Context, w io.Writer, src, parent string) error {
	if parent != "" {
		return plainErr("send", fmt.Errorf("incremental streams: %w", ErrNotSupported))
	}

	zw := gzip.NewWriter(w)
	zw.Header.Name = filepath.Base(src)
	tw := tar.NewWriter(zw)

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return plainErr("send", err)
	}
	if err := tw.Close(); err != nil {
		return plainErr("send", err)
	}
	if err := zw.Close(); err != nil {
		return plainErr("send", err)
	}
	return nil
}

func (p *plain) Receive(ctx context.Context, r io.Reader, dstDir string) error {
	br := bufio.NewReader(r)
	zr, err := gzip.NewReader(br)
	if err != nil {
		return plainErr("receive", err)
	}
	zr.Multistream(false)

	for {
		name := zr.Header.Name
		if name == "" || name != filepath.Base(filepath.Clean(name)) {
			return plainErr("receive", fmt.Errorf("stream carries unusable volume name %q", name))
		}
		volDir := filepath.Join(dstDir, name)
		if err := unpackTar(ctx, zr, volDir); err != nil {
			return plainErr("receive", err)
		}
		if err := sealTree(volDir, true); err != nil {
			return plainErr("receive", err)
		}

		if p.log.IsDebug() {
			p.log.Debug("received volume", logging.Volume(name), logging.Path(volDir))
		}

		err = zr.Reset(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return plainErr("receive", err)
		}
		zr.Multistream(false)
	}
	return nil
}

func (p *plain) SetReadOnly(ctx context.Context, path string, ro bool) error {
	if err := sealTree(path, ro); err != nil {
		return plainErr("set-read-only", err)
	}
	return nil
}

func (p *plain) Capable(string) error {
	return nil
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// Sockets, devices and the like have no place in a snapshot.
			return nil
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// sealTree strips (ro=true) or restores (ro=false) the owner write bit on
// every entry of the tree. Symlinks are left alone.
func sealTree(root string, ro bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return nil
		}
		mode := info.Mode().Perm()
		if ro {
			mode &^= 0o222
		} else {
			mode |= 0o200
		}
		return os.Chmod(path, mode)
	})
}

func unpackTar(ctx context.Context, r io.Reader, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0o700); err != nil {
		return err
	}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := filepath.FromSlash(hdr.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("stream entry %q escapes the volume", hdr.Name)
		}
		target := filepath.Join(dstDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, fs.FileMode(hdr.Mode).Perm()|0o700); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fs.FileMode(hdr.Mode).Perm()|0o200)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		default:
			// Anything else was skipped at send time already.
		}
	}
}
