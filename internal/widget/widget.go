// Package widget drives the climate fetch-render cycle.
//
// A ClimateWidget composes a data source (api.ClimateSource) and a renderer
// (render.Renderer) and repeats one poll per scheduler interval:
//
//	idle -> requesting -> rendered | errored
//
// Every poll is independent. A failed poll is logged and rendered as the
// error state; it never stops the schedule or affects the next poll.
package widget

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/climatewidget/internal/api"
	"github.com/tejusbharadwaj/climatewidget/internal/metrics"
	"github.com/tejusbharadwaj/climatewidget/internal/models"
	"github.com/tejusbharadwaj/climatewidget/internal/render"
	"github.com/tejusbharadwaj/climatewidget/internal/scheduler"
)

// DefaultInterval is the polling interval when none is configured.
const DefaultInterval = 60 * time.Second

var ErrAlreadyStarted = errors.New("climate widget already started")

// PollObserver is told the outcome of every poll; err is nil on success.
type PollObserver func(err error)

type ClimateWidget struct {
	source    api.ClimateSource
	renderer  render.Renderer
	scheduler *scheduler.Scheduler
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	observers []PollObserver
	started   atomic.Bool
}

type Option func(*ClimateWidget)

func WithScheduler(s *scheduler.Scheduler) Option {
	return func(w *ClimateWidget) {
		w.scheduler = s
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(w *ClimateWidget) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *ClimateWidget) {
		w.metrics = m
	}
}

func WithPollObserver(o PollObserver) Option {
	return func(w *ClimateWidget) {
		w.observers = append(w.observers, o)
	}
}

// NewClimateWidget creates a widget polling source and writing to renderer.
// Without WithScheduler it polls every DefaultInterval.
func NewClimateWidget(source api.ClimateSource, renderer render.Renderer, opts ...Option) (*ClimateWidget, error) {
	if source == nil {
		return nil, errors.New("climate widget: nil source")
	}
	if renderer == nil {
		return nil, errors.New("climate widget: nil renderer")
	}

	w := &ClimateWidget{
		source:   source,
		renderer: renderer,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.scheduler == nil {
		s, err := scheduler.NewScheduler(DefaultInterval, w.logger)
		if err != nil {
			return nil, err
		}
		w.scheduler = s
	}
	return w, nil
}

// Start runs one poll immediately and then one per interval until ctx is
// done or the returned task is stopped. It can only be called once.
func (w *ClimateWidget) Start(ctx context.Context) (*scheduler.Task, error) {
	if !w.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	return w.scheduler.Start(ctx, w.FetchClimateData), nil
}

// FetchClimateData performs one fetch-render cycle. Failures are logged and
// rendered; nothing is returned to the caller.
func (w *ClimateWidget) FetchClimateData(ctx context.Context) {
	start := time.Now()
	logger := w.logger.WithField("poll_id", uuid.NewString())

	reading, err := w.source.FetchLatest(ctx)
	if err != nil {
		logger.WithError(err).Error("Error fetching climate data")
		w.ShowError()
	} else {
		logger.WithFields(logrus.Fields{
			"temperature":   reading.Temperature,
			"humidity":      reading.Humidity,
			"last_datetime": reading.LastDatetime,
		}).Debug("Climate data rendered")
		w.UpdateUI(reading)
	}

	w.record(err, time.Since(start))
}

// UpdateUI renders a reading verbatim.
func (w *ClimateWidget) UpdateUI(reading models.ClimateReading) {
	w.renderer.UpdateUI(reading)
}

// ShowError renders the connection failure state.
func (w *ClimateWidget) ShowError() {
	w.renderer.ShowError()
}

func (w *ClimateWidget) record(err error, elapsed time.Duration) {
	if w.metrics != nil {
		outcome := metrics.OutcomeRendered
		if err != nil {
			outcome = metrics.OutcomeErrored
		}
		w.metrics.Polls.WithLabelValues(outcome).Inc()
		w.metrics.PollLatency.Observe(elapsed.Seconds())
	}
	for _, o := range w.observers {
		o(err)
	}
}
