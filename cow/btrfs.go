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
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"code.denebprotocol.io/deneb/logging"
)

const btrfsBin = "btrfs"

// runFunc runs one backend command with wired std streams and returns its
// collected stderr. Swappable in tests.
type runFunc func(ctx context.Context, stdin io.Reader, stdout io.Writer, args ...string) (string, error)

// btrfs drives the btrfs CLI. Every primitive maps onto one subcommand, the
// same ones the storage layout was designed around: subvolume create,
// subvolume snapshot -r, subvolume delete, send, receive, property set.
type btrfs struct {
	log *logging.Logger
	run runFunc
}

func newBtrfs(log *logging.Logger) *btrfs {
	b := &btrfs{log: log}
	b.run = b.execBtrfs
	return b
}

func (b *btrfs) execBtrfs(ctx context.Context, stdin io.Reader, stdout io.Writer, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, btrfsBin, args...)
	stderr := &bytes.Buffer{}
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if b.log.IsDebug() {
		b.log.Debug("running btrfs", logging.Strings("args", args))
	}

	err := cmd.Run()
	return stderr.String(), err
}

func (b *btrfs) opErr(op string, args []string, output string, err error) error {
	return &OperationError{
		Op:     op,
		Cmd:    btrfsBin + " " + strings.Join(args, " "),
		Output: output,
		Err:    err,
	}
}

func (b *btrfs) Create(ctx context.Context, path string) error {
	args := []string{"subvolume", "create", path}
	if out, err := b.run(ctx, nil, nil, args...); err != nil {
		return b.opErr("create", args, out, err)
	}
	return nil
}

func (b *btrfs) Snapshot(ctx context.Context, src, dst string) error {
	args := []string{"subvolume", "snapshot", "-r", src, dst}
	if out, err := b.run(ctx, nil, nil, args...); err != nil {
		return b.opErr("snapshot", args, out, err)
	}
	return nil
}

func (b *btrfs) Delete(ctx context.Context, path string) error {
	args := []string{"subvolume", "delete", path}
	if out, err := b.run(ctx, nil, nil, args...); err != nil {
		return b.opErr("delete", args, out, err)
	}
	return nil
}

func (b *btrfs) Send(ctx context.Context, w io.Writer, src, parent string) error {
	args := []string{"send"}
	if parent != "" {
		args = append(args, "-p", parent)
	}
	args = append(args, src)
	if out, err := b.run(ctx, nil, w, args...); err != nil {
		return b.opErr("send", args, out, err)
	}
	return nil
}

func (b *btrfs) Receive(ctx context.Context, r io.Reader, dstDir string) error {
	args := []string{"receive", dstDir}
	if out, err := b.run(ctx, r, nil, args...); err != nil {
		return b.opErr("receive", args, out, err)
	}
	return nil
}

func (b *btrfs) SetReadOnly(ctx context.Context, path string, ro bool) error {
	value := "false"
	if ro {
		value = "true"
	}
	args := []string{"property", "set", path, "ro", value}
	if out, err := b.run(ctx, nil, nil, args...); err != nil {
		return b.opErr("set-read-only", args, out, err)
	}
	return nil
}

func (b *btrfs) Capable(path string) error {
	if _, err := exec.LookPath(btrfsBin); err != nil {
		return ErrNotCapable
	}
	return btrfsFilesystem(path)
}
