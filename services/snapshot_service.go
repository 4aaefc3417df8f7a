package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/storage"
	"golang.org/x/sync/errgroup"
)

// SnapshotResult carries the public URLs of one published bracket render.
type SnapshotResult struct {
	JSONLocation string `json:"json_location"`
	DOTLocation  string `json:"dot_location"`
}

// SnapshotService publishes the bracket graph of a tournament as a share
// artifact: a JSON node/edge description plus a Graphviz DOT render,
// uploaded side by side to object storage.
type SnapshotService interface {
	Publish(ctx context.Context, tournamentID string) (*SnapshotResult, error)
}

type snapshotService struct {
	tournaments TournamentService
	uploader    storage.FileUploader
	logger      *slog.Logger
}

// NewSnapshotService wires snapshot publishing; a nil uploader disables it.
func NewSnapshotService(tournaments TournamentService, uploader storage.FileUploader, logger *slog.Logger) SnapshotService {
	return &snapshotService{
		tournaments: tournaments,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *snapshotService) Publish(ctx context.Context, tournamentID string) (*SnapshotResult, error) {
	if s.uploader == nil {
		return nil, ErrSnapshotsDisabled
	}

	graph, err := s.tournaments.Graph(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(graph.Edges) == 0 {
		return nil, ErrNothingToSnapshot
	}

	graphJSON, err := json.MarshalIndent(graph, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket graph: %w", err)
	}
	graphDOT := brackets.RenderDOT(graph)

	prefix := fmt.Sprintf("snapshots/%s/%d", tournamentID, time.Now().Unix())
	result := &SnapshotResult{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		up, err := s.uploader.Upload(gCtx, prefix+"-graph.json", "application/json", bytes.NewReader(graphJSON))
		if err != nil {
			return err
		}
		result.JSONLocation = up.Location
		return nil
	})
	g.Go(func() error {
		up, err := s.uploader.Upload(gCtx, prefix+"-graph.dot", "text/vnd.graphviz", bytes.NewReader([]byte(graphDOT)))
		if err != nil {
			return err
		}
		result.DOTLocation = up.Location
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to publish bracket snapshot: %w", err)
	}

	s.logger.Info("bracket snapshot published",
		slog.String("tournament_id", tournamentID),
		slog.String("json", result.JSONLocation),
		slog.String("dot", result.DOTLocation))
	return result, nil
}
