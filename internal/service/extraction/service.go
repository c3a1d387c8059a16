// Package extraction runs the full pipeline over one export file and
// persists the derived artifacts as an extraction run.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"infacat/internal/extract"
	"infacat/internal/schema"
	"infacat/internal/store"
	"infacat/internal/xmltree"
)

// Service drives extraction runs and records them in the metastore.
type Service struct {
	extractor *extract.Extractor
	runs      *store.RunStore
	logger    *slog.Logger
}

// NewService returns a Service writing runs through the given store.
func NewService(runs *store.RunStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extract.New(logger),
		runs:      runs,
		logger:    logger.With("component", "extraction"),
	}
}

// Run extracts the export at inputPath, generates the schema artifacts, and
// persists everything as one run. Bad input degrades to a run with empty
// artifacts; only marshaling or storage failures surface as errors.
func (s *Service) Run(ctx context.Context, inputPath string) (store.Run, error) {
	started := time.Now()

	result := s.extractor.ExtractFile(inputPath)

	// The schema/DTD generator is an independent walk of the same file and
	// shares no state with the extraction core.
	stats := schema.Stats{}
	if root, err := xmltree.ParseFile(inputPath); err == nil {
		stats = schema.Extract(root)
	}

	artifacts, err := MarshalArtifacts(result, stats)
	if err != nil {
		return store.Run{}, err
	}

	run := store.Run{
		ID:             uuid.NewString(),
		SourcePath:     inputPath,
		RepositoryName: result.RepositoryName,
		LineageEdges:   len(result.Lineage),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.runs.CreateRun(ctx, run, artifacts); err != nil {
		return store.Run{}, fmt.Errorf("persist run: %w", err)
	}

	s.logger.Info("extraction run complete",
		"run_id", run.ID,
		"input", inputPath,
		"repository", run.RepositoryName,
		"lineage_edges", run.LineageEdges,
		"elements", len(stats),
		"duration", time.Since(started),
	)
	return run, nil
}

// MarshalArtifacts renders the five persisted artifact bodies.
func MarshalArtifacts(result *extract.Result, stats schema.Stats) (map[string][]byte, error) {
	dbObjects, err := json.MarshalIndent(result.DBObjects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal db objects: %w", err)
	}
	infaObjects, err := json.MarshalIndent(result.InformaticaObjects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal informatica objects: %w", err)
	}
	lineage, err := json.MarshalIndent(result.Lineage, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal lineage: %w", err)
	}
	statsBody, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema stats: %w", err)
	}

	return map[string][]byte{
		store.ArtifactDBObjects:          dbObjects,
		store.ArtifactInformaticaObjects: infaObjects,
		store.ArtifactColumnLineage:      lineage,
		store.ArtifactXMLSchema:          statsBody,
		store.ArtifactDTD:                []byte(schema.GenerateDTD(stats)),
	}, nil
}
