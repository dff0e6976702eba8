package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weather-app/weather-pipeline/internal/logger"
	"github.com/weather-app/weather-pipeline/internal/models"
)

// RecordWriter is the storage dependency of the pipeline: one independent
// insert per accepted row, no batching.
type RecordWriter interface {
	Insert(ctx context.Context, rec *models.WeatherRecord) error
}

// Archiver stores the raw payload of an upload. Optional; failures are
// logged and never affect the ingestion outcome.
type Archiver interface {
	Store(ctx context.Context, key string, payload []byte) error
}

// Pipeline processes one uploaded CSV payload end to end: parse every line,
// insert the rows that parse, count the rest.
type Pipeline struct {
	repo    RecordWriter
	archive Archiver
	logger  logger.Logger
}

func NewPipeline(repo RecordWriter, archive Archiver, log logger.Logger) *Pipeline {
	return &Pipeline{
		repo:    repo,
		archive: archive,
		logger:  log.WithField("component", "ingest_pipeline"),
	}
}

// Checksum fingerprints a raw payload as "sha256:<hex>".
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Ingest runs the whole payload. One bad row never aborts the rest: parse
// failures and insert failures are both counted as rejected and the loop
// continues. The summary always satisfies
// RowsInserted + RowsRejected == number of non-empty input lines.
func (p *Pipeline) Ingest(ctx context.Context, payload []byte) *models.IngestionSummary {
	start := time.Now()

	summary := &models.IngestionSummary{
		UploadID:     uuid.New().String(),
		FileChecksum: Checksum(payload),
	}
	log := p.logger.WithField("upload_id", summary.UploadID)

	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		result := ParseRow(line)
		if !result.OK() {
			log.Warnf("Rejected row: %s", result.Reason)
			summary.RowsRejected++
			continue
		}

		if err := p.repo.Insert(ctx, result.Record); err != nil {
			log.Warnf("Insert failed for %s/%s: %v", result.Record.City, result.Record.DateString(), err)
			summary.RowsRejected++
			continue
		}
		summary.RowsInserted++
	}

	if p.archive != nil {
		key := strings.TrimPrefix(summary.FileChecksum, "sha256:") + ".csv"
		if err := p.archive.Store(ctx, key, payload); err != nil {
			log.Warnf("Failed to archive upload: %v", err)
		}
	}

	summary.Elapsed = time.Since(start)
	summary.ElapsedMS = summary.Elapsed.Milliseconds()

	log.Infof("Ingestion finished: %d inserted, %d rejected in %v",
		summary.RowsInserted, summary.RowsRejected, summary.Elapsed)
	return summary
}
