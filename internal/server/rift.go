package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rift-rewind/internal/api"
	"rift-rewind/internal/constants"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/heatmap"
	"rift-rewind/internal/middleware"
	"rift-rewind/internal/pipeline"
	"rift-rewind/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const RiftRewindName = "riftrewind.v1.RiftRewind"

const (
	SearchProcedure         = "/" + RiftRewindName + "/Search"
	GetStatsProcedure       = "/" + RiftRewindName + "/GetStats"
	GetTimelineProcedure    = "/" + RiftRewindName + "/GetTimeline"
	GetHeatmapPlanProcedure = "/" + RiftRewindName + "/GetHeatmapPlan"
	GenerateRecapProcedure  = "/" + RiftRewindName + "/GenerateRecap"
)

type RiftServer struct {
	searchSvc    *service.SearchService
	dashboardSvc *service.DashboardService
	renderer     *heatmap.Renderer
	logger       zerolog.Logger
}

func NewRiftServer(searchSvc *service.SearchService, dashboardSvc *service.DashboardService, renderer *heatmap.Renderer, logger zerolog.Logger) *RiftServer {
	return &RiftServer{
		searchSvc:    searchSvc,
		dashboardSvc: dashboardSvc,
		renderer:     renderer,
		logger:       logger.With().Str("component", "rift_server").Logger(),
	}
}

// NewRiftRewindHandler mounts every procedure and returns the path prefix
// to register the handler under.
func NewRiftRewindHandler(s *RiftServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SearchProcedure, connect.NewUnaryHandler(SearchProcedure, s.Search, opts...))
	mux.Handle(GetStatsProcedure, connect.NewUnaryHandler(GetStatsProcedure, s.GetStats, opts...))
	mux.Handle(GetTimelineProcedure, connect.NewUnaryHandler(GetTimelineProcedure, s.GetTimeline, opts...))
	mux.Handle(GetHeatmapPlanProcedure, connect.NewUnaryHandler(GetHeatmapPlanProcedure, s.GetHeatmapPlan, opts...))
	mux.Handle(GenerateRecapProcedure, connect.NewUnaryHandler(GenerateRecapProcedure, s.GenerateRecap, opts...))
	return "/" + RiftRewindName + "/", mux
}

func (s *RiftServer) Search(ctx context.Context, req *connect.Request[SearchRequest]) (*connect.Response[SearchResponse], error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	rec := &pipeline.Recorder{}
	progress := pipeline.ReporterFunc(func(p pipeline.Progress) {
		logger.Debug().Str("step", p.Step.String()).Msg(p.Label)
	})

	res, err := s.searchSvc.Search(ctx, sessionID(ctx, req.Header()), req.Msg.RiotID, req.Msg.Region, pipeline.Tee(rec, progress))
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := connect.NewResponse(&SearchResponse{
		SessionID: res.SessionID,
		Steps:     rec.Events(),
		Player:    res.Player,
		Receipt:   res.Receipt,
	})
	resp.Header().Set(constants.SessionHeader, res.SessionID)

	logger.Info().Dur("duration", time.Since(start)).Str("session_id", res.SessionID).Msg("search served")
	return resp, nil
}

func (s *RiftServer) GetStats(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[service.StatsView], error) {
	view, err := s.dashboardSvc.Stats(ctx, sessionID(ctx, req.Header()))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(view), nil
}

func (s *RiftServer) GetTimeline(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[service.TimelineView], error) {
	view, err := s.dashboardSvc.Timeline(ctx, sessionID(ctx, req.Header()))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(view), nil
}

func (s *RiftServer) GetHeatmapPlan(ctx context.Context, req *connect.Request[HeatmapPlanRequest]) (*connect.Response[HeatmapPlanResponse], error) {
	cfg, err := domain.ParseRenderConfig(req.Msg.Intensity, req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	points, err := s.dashboardSvc.KillPositions(ctx, sessionID(ctx, req.Header()))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&HeatmapPlanResponse{
		Size:     s.renderer.Size(),
		Config:   cfg,
		Points:   len(points),
		Commands: s.renderer.Plan(points, cfg),
	}), nil
}

func (s *RiftServer) GenerateRecap(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[api.RecapPayload], error) {
	recap, err := s.searchSvc.Recap(ctx, sessionID(ctx, req.Header()))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(recap), nil
}

// HeatmapPNG serves the rendered heatmap. Without a session the caller is
// sent back to the entry point; with no kills there is nothing to draw.
func (s *RiftServer) HeatmapPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	q := r.URL.Query()
	cfg, err := domain.ParseRenderConfig(0, q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// an explicit intensity is validated as given; only a missing one defaults
	if q.Has("intensity") {
		n, err := strconv.Atoi(q.Get("intensity"))
		if err != nil {
			http.Error(w, "intensity must be an integer", http.StatusBadRequest)
			return
		}
		cfg.Intensity = n
		if err := cfg.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	points, err := s.dashboardSvc.KillPositions(ctx, sessionID(ctx, r.Header))
	if errors.Is(err, service.ErrSessionNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to load kill positions")
		http.Error(w, "failed to load kill positions", http.StatusInternalServerError)
		return
	}

	img, err := s.renderer.Render(ctx, points, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to render heatmap")
		http.Error(w, "failed to render heatmap", http.StatusInternalServerError)
		return
	}
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := heatmap.EncodePNG(w, img); err != nil {
		logger.Warn().Err(err).Msg("failed to write heatmap")
	}
}

func sessionID(ctx context.Context, header http.Header) string {
	if id := middleware.GetSessionID(ctx); id != "" {
		return id
	}
	return header.Get(constants.SessionHeader)
}

func toConnectError(err error) error {
	var stepErr *pipeline.StepError
	var apiErr *api.APIError

	switch {
	case errors.Is(err, domain.ErrInvalidIdentity), errors.Is(err, domain.ErrInvalidRenderConf):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, service.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &stepErr):
		ce := connect.NewError(connect.CodeUnavailable, err)
		ce.Meta().Set("Rift-Failed-Step", stepErr.Step.String())
		if code := stepErr.StatusCode(); code != 0 {
			ce.Meta().Set("Rift-Upstream-Status", strconv.Itoa(code))
		}
		return ce
	case errors.As(err, &apiErr):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
