package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rift-rewind/internal/api"
	"rift-rewind/internal/config"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/metrics"

	"github.com/rs/zerolog"
)

var errEmptyPayload = errors.New("backend returned no payload")

// Backend is the subset of the insights API the pipeline drives.
type Backend interface {
	GetStats(ctx context.Context, id domain.PlayerIdentity) (*api.StatsPayload, error)
	ProcessTimelines(ctx context.Context, id domain.PlayerIdentity) (*api.ProcessingReceipt, error)
	GetTimelineStats(ctx context.Context, id domain.PlayerIdentity) (*api.TimelinePayload, error)
}

type Result struct {
	Stats         *api.StatsPayload      `json:"stats"`
	Timeline      *api.TimelinePayload   `json:"timeline"`
	ProcessResult *api.ProcessingReceipt `json:"processResult"`
}

// StepError reports which step aborted the pipeline.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", int(e.Step), e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StatusCode is the backend's HTTP status, or 0 when the step failed
// before a response arrived.
func (e *StepError) StatusCode() int {
	var apiErr *api.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func (e *StepError) Body() string {
	var apiErr *api.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

type Orchestrator struct {
	backend     Backend
	stepTimeout time.Duration
	logger      zerolog.Logger
}

func NewOrchestrator(backend Backend, cfg *config.Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		backend:     backend,
		stepTimeout: cfg.StepTimeout,
		logger:      logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run performs stats, timeline processing and timeline stats strictly in
// that order. Any failure aborts the run and no partial result is
// returned. reporter may be nil.
func (o *Orchestrator) Run(ctx context.Context, id domain.PlayerIdentity, reporter Reporter) (*Result, error) {
	logger := o.logger.With().
		Str("game_name", id.GameName).
		Str("tag_line", id.TagLine).
		Str("region", id.Region).
		Logger()

	logger.Info().Msg("pipeline started")
	start := time.Now()

	stats, err := runStep(ctx, o, StepStats, reporter, func(ctx context.Context) (*api.StatsPayload, error) {
		return o.backend.GetStats(ctx, id)
	})
	if err != nil {
		return nil, o.fail(logger, err)
	}

	receipt, err := runStep(ctx, o, StepProcessTimelines, reporter, func(ctx context.Context) (*api.ProcessingReceipt, error) {
		return o.backend.ProcessTimelines(ctx, id)
	})
	if err != nil {
		return nil, o.fail(logger, err)
	}

	// The receipt never gates the next step, and nothing here waits for
	// the backend to finish processing before timeline stats are read.
	logger.Debug().
		Int("processed", receipt.Processed).
		Int("skipped", receipt.Skipped).
		Str("message", receipt.Message).
		Msg("timeline processing requested")

	timeline, err := runStep(ctx, o, StepTimelineStats, reporter, func(ctx context.Context) (*api.TimelinePayload, error) {
		return o.backend.GetTimelineStats(ctx, id)
	})
	if err != nil {
		return nil, o.fail(logger, err)
	}

	o.report(reporter, StepComplete)
	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("kill_positions", len(timeline.Heatmap.KillPositions)).
		Msg("pipeline completed")

	return &Result{Stats: stats, Timeline: timeline, ProcessResult: receipt}, nil
}

func runStep[T any](ctx context.Context, o *Orchestrator, step Step, reporter Reporter, call func(context.Context) (*T, error)) (*T, error) {
	o.report(reporter, step)

	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	start := time.Now()
	payload, err := call(stepCtx)
	metrics.PipelineStepDuration.WithLabelValues(step.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, &StepError{Step: step, Err: err}
	}
	if payload == nil {
		return nil, &StepError{Step: step, Err: errEmptyPayload}
	}
	return payload, nil
}

func (o *Orchestrator) fail(logger zerolog.Logger, err error) error {
	metrics.PipelineRunsTotal.WithLabelValues("failure").Inc()

	var stepErr *StepError
	if errors.As(err, &stepErr) {
		logger.Error().
			Err(stepErr.Err).
			Str("step", stepErr.Step.String()).
			Int("status", stepErr.StatusCode()).
			Msg("pipeline aborted")
	}
	return err
}

func (o *Orchestrator) report(reporter Reporter, step Step) {
	if reporter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn().
				Interface("panic", r).
				Str("step", step.String()).
				Msg("progress reporter panicked, continuing")
		}
	}()
	reporter.Report(newProgress(step))
}
