// Copyright (C) 2023 Gobalsky Labs Limited
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
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "bizon"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	engineTime          *prometheus.CounterVec
	entryCounter        *prometheus.CounterVec
	placementCounter    *prometheus.CounterVec
	completionCounter   *prometheus.CounterVec
	distributionCounter *prometheus.CounterVec
	claimCounter        prometheus.Counter
	payoutCounter       *prometheus.CounterVec
	participantsGauge   prometheus.Gauge
	// Call counters for each request type
	apiRequestCallCounter *prometheus.CounterVec
	// Total time counters for each request type
	apiRequestTimeCounter *prometheus.CounterVec
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
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

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Subsystem - set subsystem... obviously
func Subsystem(s string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Subsystem = s
	}
}

// Buckets - specific to histogram type
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configures a new metrics instrument and registers it on reg.
func AddInstrument(reg prometheus.Registerer, t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	// apply options
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
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
	if err := reg.Register(col); err != nil {
		return nil, errors.Wrapf(err, "could not register %s", name)
	}
	return &ret, nil
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

// Gauge returns a prometheus Gauge instrument
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// GaugeVec returns a prometheus GaugeVec instrument
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// Counter returns a prometheus Counter instrument
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) Histogram() (prometheus.Histogram, error) {
	if m.histogram == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogram, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

func counterVec(reg prometheus.Registerer, name, help string, labels ...string) (*prometheus.CounterVec, error) {
	h, err := AddInstrument(reg, Counter, name, Namespace(namespace), Vectors(labels...), Help(help))
	if err != nil {
		return nil, err
	}
	return h.CounterVec()
}

// Setup builds a registry holding the process collectors and every ledger
// instrument. The package level helpers report to the instruments of the
// last registry built.
func Setup() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	if engineTime, err = counterVec(reg, "engine_seconds_total", "Time spent in each ledger operation", "fn"); err != nil {
		return nil, err
	}
	if entryCounter, err = counterVec(reg, "entries_total", "Number of accepted entries", "first"); err != nil {
		return nil, err
	}
	if placementCounter, err = counterVec(reg, "placements_total", "Number of matrix placements", "sink"); err != nil {
		return nil, err
	}
	if completionCounter, err = counterVec(reg, "completions_total", "Number of completed matrices", "cycle"); err != nil {
		return nil, err
	}
	if distributionCounter, err = counterVec(reg, "distributions_total", "Number of distribution requests", "cadence", "distributed"); err != nil {
		return nil, err
	}
	if payoutCounter, err = counterVec(reg, "payouts_total", "Number of payout status changes", "status"); err != nil {
		return nil, err
	}
	if apiRequestCallCounter, err = counterVec(reg, "request_count_total", "Count of API requests", "apiType", "requestType"); err != nil {
		return nil, err
	}
	if apiRequestTimeCounter, err = counterVec(reg, "request_time_total", "Total time spent in each API request", "apiType", "requestType"); err != nil {
		return nil, err
	}

	h, err := AddInstrument(reg, Counter, "claims_total", Namespace(namespace), Help("Number of successful claims"))
	if err != nil {
		return nil, err
	}
	if claimCounter, err = h.Counter(); err != nil {
		return nil, err
	}

	h, err = AddInstrument(reg, Gauge, "participants", Namespace(namespace), Help("Number of registered participants"))
	if err != nil {
		return nil, err
	}
	if participantsGauge, err = h.Gauge(); err != nil {
		return nil, err
	}

	return reg, nil
}

// EntryCounterInc increments the entry counter
func EntryCounterInc(first bool) {
	if entryCounter == nil {
		return
	}
	entryCounter.WithLabelValues(boolLabel(first)).Inc()
}

// PlacementCounterInc increments the placement counter
func PlacementCounterInc(sink bool) {
	if placementCounter == nil {
		return
	}
	placementCounter.WithLabelValues(boolLabel(sink)).Inc()
}

// CompletionCounterInc increments the matrix completion counter
func CompletionCounterInc(cycle bool) {
	if completionCounter == nil {
		return
	}
	completionCounter.WithLabelValues(boolLabel(cycle)).Inc()
}

// DistributionCounterInc increments the distribution counter
func DistributionCounterInc(cadence string, distributed bool) {
	if distributionCounter == nil {
		return
	}
	distributionCounter.WithLabelValues(cadence, boolLabel(distributed)).Inc()
}

func ClaimCounterInc() {
	if claimCounter == nil {
		return
	}
	claimCounter.Inc()
}

// PayoutCounterInc increments the payout counter for the status reached
func PayoutCounterInc(status string) {
	if payoutCounter == nil {
		return
	}
	payoutCounter.WithLabelValues(status).Inc()
}

// ParticipantsGaugeInc increments the participants gauge
func ParticipantsGaugeInc() {
	if participantsGauge == nil {
		return
	}
	participantsGauge.Inc()
}

// ParticipantsGaugeSet update the number of participants
func ParticipantsGaugeSet(n uint64) {
	if participantsGauge == nil {
		return
	}
	participantsGauge.Set(float64(n))
}

// APIRequestAndTimeREST updates the metrics for REST API calls
func APIRequestAndTimeREST(request string, startTime time.Time) {
	if apiRequestCallCounter == nil || apiRequestTimeCounter == nil {
		return
	}
	apiRequestCallCounter.WithLabelValues("REST", request).Inc()
	apiRequestTimeCounter.WithLabelValues("REST", request).Add(time.Since(startTime).Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
