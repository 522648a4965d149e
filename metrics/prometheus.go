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

package metrics

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	snapshotOpDuration     *prometheus.HistogramVec
	snapshotCreatedCounter prometheus.Counter
	snapshotRemovedCounter prometheus.Counter
	hashRoundCounter       *prometheus.CounterVec
	peerFailureCounter     prometheus.Counter
	downloadedBytesCounter prometheus.Counter
)

// abstract prometheus types.
type instrument int

// combine all possible prometheus options + way to differentiate between
// regular or vector type.
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice
// of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configures and registers a new metrics instrument.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := opt.gauge()
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := opt.counter()
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Start enables metrics given the config.
func Start(conf Config) error {
	if !bool(conf.Enabled) {
		return nil
	}
	if err := setupMetrics(); err != nil {
		return errors.Wrap(err, "couldn't set up metrics")
	}
	http.Handle(conf.Path, promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", conf.Port), nil))
	}()
	return nil
}

func (i instrumentOpts) gauge() prometheus.GaugeOpts {
	return prometheus.GaugeOpts(i.opts)
}

func (i instrumentOpts) counter() prometheus.CounterOpts {
	return prometheus.CounterOpts(i.opts)
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

// Gauge returns a prometheus Gauge instrument.
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// Counter returns a prometheus Counter instrument.
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Histogram,
		"snapshot_op_duration_seconds",
		Namespace("deneb"),
		Vectors("op"),
		Buckets([]float64{.1, .5, 1, 5, 15, 60, 300}),
		Help("Time spent in snapshot manager operations"),
	)
	if err != nil {
		return err
	}
	sod, err := h.HistogramVec()
	if err != nil {
		return err
	}
	snapshotOpDuration = sod

	h, err = AddInstrument(
		Counter,
		"snapshots_created_total",
		Namespace("deneb"),
		Help("Number of snapshots created"),
	)
	if err != nil {
		return err
	}
	sc, err := h.Counter()
	if err != nil {
		return err
	}
	snapshotCreatedCounter = sc

	h, err = AddInstrument(
		Counter,
		"snapshots_removed_total",
		Namespace("deneb"),
		Help("Number of snapshots removed"),
	)
	if err != nil {
		return err
	}
	sr, err := h.Counter()
	if err != nil {
		return err
	}
	snapshotRemovedCounter = sr

	h, err = AddInstrument(
		Counter,
		"hash_rounds_total",
		Namespace("deneb"),
		Vectors("outcome"),
		Help("Number of hash agreement rounds by outcome"),
	)
	if err != nil {
		return err
	}
	hr, err := h.CounterVec()
	if err != nil {
		return err
	}
	hashRoundCounter = hr

	h, err = AddInstrument(
		Counter,
		"peer_collect_failures_total",
		Namespace("deneb"),
		Help("Number of peers that failed to answer during hash collection"),
	)
	if err != nil {
		return err
	}
	pf, err := h.Counter()
	if err != nil {
		return err
	}
	peerFailureCounter = pf

	h, err = AddInstrument(
		Counter,
		"snapshot_bytes_downloaded_total",
		Namespace("deneb"),
		Help("Bytes of snapshot diffs downloaded from peers"),
	)
	if err != nil {
		return err
	}
	db, err := h.Counter()
	if err != nil {
		return err
	}
	downloadedBytesCounter = db

	return nil
}

// StartSnapshotOp times one snapshot manager operation, for use as
// defer metrics.StartSnapshotOp("do_snapshot")().
func StartSnapshotOp(op string) func() {
	startTime := time.Now()
	return func() {
		if snapshotOpDuration == nil {
			return
		}
		snapshotOpDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}
}

// SnapshotCreatedInc increments the created snapshot counter.
func SnapshotCreatedInc() {
	if snapshotCreatedCounter == nil {
		return
	}
	snapshotCreatedCounter.Inc()
}

// SnapshotRemovedInc increments the removed snapshot counter.
func SnapshotRemovedInc() {
	if snapshotRemovedCounter == nil {
		return
	}
	snapshotRemovedCounter.Inc()
}

// HashRoundInc increments the hash round counter for an outcome, one of
// "agreed", "negative" or "failed".
func HashRoundInc(outcome string) {
	if hashRoundCounter == nil {
		return
	}
	hashRoundCounter.WithLabelValues(outcome).Inc()
}

// PeerCollectFailureInc counts one peer that failed to answer during
// collection.
func PeerCollectFailureInc() {
	if peerFailureCounter == nil {
		return
	}
	peerFailureCounter.Inc()
}

// DownloadedBytesAdd counts bytes of snapshot data downloaded from peers.
func DownloadedBytesAdd(n int64) {
	if downloadedBytesCounter == nil {
		return
	}
	downloadedBytesCounter.Add(float64(n))
}
