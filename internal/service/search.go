package service

import (
	"context"
	"errors"
	"fmt"

	"rift-rewind/internal/api"
	"rift-rewind/internal/config"
	"rift-rewind/internal/constants"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/pipeline"
	"rift-rewind/internal/repository"

	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found")

type SearchResult struct {
	SessionID string                 `json:"sessionId"`
	Player    domain.PlayerIdentity  `json:"player"`
	Receipt   *api.ProcessingReceipt `json:"receipt"`
}

type SearchService struct {
	orchestrator  *pipeline.Orchestrator
	client        *api.RiftClient
	sessions      *repository.SessionRepository
	defaultRegion string
	logger        zerolog.Logger
}

func NewSearchService(
	orchestrator *pipeline.Orchestrator,
	client *api.RiftClient,
	sessions *repository.SessionRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		orchestrator:  orchestrator,
		client:        client,
		sessions:      sessions,
		defaultRegion: cfg.DefaultRegion,
		logger:        logger.With().Str("component", "search").Logger(),
	}
}

// Search validates the Riot ID, runs the fetch pipeline and stores the
// result under sessionID, minting a new id when it is empty. Nothing is
// stored unless all three steps succeed.
func (s *SearchService) Search(ctx context.Context, sessionID, riotID, region string, reporter pipeline.Reporter) (*SearchResult, error) {
	if region == "" {
		region = s.defaultRegion
	}
	id, err := domain.ParseRiotID(riotID, region)
	if err != nil {
		s.logger.Debug().Err(err).Str("riot_id", riotID).Msg("rejected riot id")
		return nil, err
	}

	s.logger.Info().
		Str("game_name", id.GameName).
		Str("tag_line", id.TagLine).
		Str("region", id.Region).
		Str("session_id", sessionID).
		Msg("searching player")

	result, err := s.orchestrator.Run(ctx, id, reporter)
	if err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID, err = repository.NewSessionID()
		if err != nil {
			return nil, err
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	snap := repository.Snapshot{Stats: result.Stats, Timeline: result.Timeline, Player: id}
	if err := s.sessions.Save(dbCtx, sessionID, snap); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to persist search result")
		return nil, fmt.Errorf("failed to persist search result: %w", err)
	}

	s.logger.Info().Str("session_id", sessionID).Str("player", id.String()).Msg("search completed")
	return &SearchResult{SessionID: sessionID, Player: id, Receipt: result.ProcessResult}, nil
}

// Recap asks the backend for a narrative recap of the player stored in
// the session. It does not depend on the pipeline having run in this
// process, only on the stored player echo.
func (s *SearchService) Recap(ctx context.Context, sessionID string) (*api.RecapPayload, error) {
	player, err := s.sessions.GetPlayer(ctx, sessionID)
	if err != nil {
		return nil, sessionErr(err)
	}

	recapCtx, cancel := context.WithTimeout(ctx, constants.RecapTimeout)
	defer cancel()

	recap, err := s.client.GenerateRecap(recapCtx, *player)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to generate recap")
		return nil, fmt.Errorf("failed to generate recap: %w", err)
	}
	return recap, nil
}

func sessionErr(err error) error {
	if errors.Is(err, repository.ErrSlotNotFound) {
		return ErrSessionNotFound
	}
	return err
}
