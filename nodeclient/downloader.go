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

package nodeclient

import (
	"context"
	"os"

	vgio "code.denebprotocol.io/deneb/libs/io"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/metrics"
	"code.denebprotocol.io/deneb/types"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// FragmentSource is the slice of the peer protocol the downloader needs.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/fragment_source_mock.go -package mocks code.denebprotocol.io/deneb/nodeclient FragmentSource
type FragmentSource interface {
	SnapshotDiffSize(ctx context.Context, endpoint string, block uint64) (uint64, error)
	DownloadFragment(ctx context.Context, endpoint string, block, from, size uint64) (FragmentReply, error)
}

// Downloader pulls an assembled snapshot diff off one peer, fragment by
// fragment, into a local file. Individual calls are retried with exponential
// backoff; a peer that keeps failing is reported to the caller, which holds
// the list of alternatives.
type Downloader struct {
	log    *logging.Logger
	cfg    Config
	source FragmentSource
}

func NewDownloader(log *logging.Logger, cfg Config, source FragmentSource) *Downloader {
	log = log.Named(namedLogger + ".downloader")
	log.SetLevel(cfg.Level.Get())

	return &Downloader{
		log:    log,
		cfg:    cfg,
		source: source,
	}
}

// DownloadDiff writes the peer's assembled diff for the given block to dest.
// On failure the partial file is removed.
func (d *Downloader) DownloadDiff(ctx context.Context, endpoint string, block uint64, dest string) error {
	var total uint64
	err := d.retry(ctx, func() error {
		var err error
		total, err = d.source.SnapshotDiffSize(ctx, endpoint, block)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "couldn't get the diff size from %s", endpoint)
	}

	out, err := os.Create(dest)
	if err != nil {
		return types.CannotCreateErr(dest, err)
	}

	counter := vgio.NewCountWriter(out)
	for uint64(counter.Count()) < total {
		from := uint64(counter.Count())
		chunk := d.cfg.FragmentSize
		if remaining := total - from; chunk > remaining {
			chunk = remaining
		}

		var fragment FragmentReply
		err := d.retry(ctx, func() error {
			var err error
			fragment, err = d.source.DownloadFragment(ctx, endpoint, block, from, chunk)
			return err
		})
		if err != nil {
			return d.abort(out, dest, errors.Wrapf(err, "couldn't download the fragment at offset %d from %s", from, endpoint))
		}
		if len(fragment.Data) == 0 {
			return d.abort(out, dest, errors.Errorf("%s sent an empty fragment at offset %d", endpoint, from))
		}

		if _, err := counter.Write(fragment.Data); err != nil {
			return d.abort(out, dest, types.CannotWriteErr(dest, err))
		}
		metrics.DownloadedBytesAdd(int64(len(fragment.Data)))

		if d.log.IsDebug() {
			d.log.Debug("downloaded fragment",
				logging.String("endpoint", endpoint),
				logging.String("progress", humanize.IBytes(uint64(counter.Count()))+" of "+humanize.IBytes(total)),
			)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(dest)
		return types.CannotWriteErr(dest, err)
	}

	d.log.Info("downloaded snapshot diff",
		logging.String("endpoint", endpoint),
		logging.BlockNumber(block),
		logging.String("size", humanize.IBytes(total)),
	)
	return nil
}

func (d *Downloader) abort(out *os.File, dest string, err error) error {
	out.Close()
	os.Remove(dest)
	return err
}

func (d *Downloader) retry(ctx context.Context, op backoff.Operation) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.cfg.RetryInitialInterval.Get()
	return backoff.Retry(op, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), d.cfg.MaxRetries))
}
