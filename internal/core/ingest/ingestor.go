package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/splitter"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core/vectorstore/qdrant"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

// embedConcurrency bounds parallel dense-embedding requests per document.
const embedConcurrency = 4

var _ Ingestor = (*DocumentIngestor)(nil)

// DocumentIngestor runs the background indexing pipeline for uploaded
// documents: extract → split → embed (dense + sparse) → upsert → status flip.
//
// db:        lifecycle tracker (the only relational writer in the pipeline).
// store:     tenant-scoped vector index gateway.
// dense:     semantic embedding provider.
// sparse:    lexical embedding encoder (local, deterministic).
// extractor: per-format text extraction registry.
// jobs:      in-memory queue of uploads to process.
type DocumentIngestor struct {
	db        core.DbClient
	store     core.VectorStore
	dense     core.DenseEmbedder
	sparse    core.SparseEmbedder
	extractor FileExtractor
	split     *splitter.Splitter
	cfg       Config
	jobs      chan Job
	logger    *zap.Logger
}

// NewDocumentIngestor constructs the ingestor with a bounded job queue.
func NewDocumentIngestor(
	db core.DbClient,
	store core.VectorStore,
	dense core.DenseEmbedder,
	sparse core.SparseEmbedder,
	extractor FileExtractor,
	cfg Config,
	logger *zap.Logger,
) *DocumentIngestor {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentIngestor{
		db:        db,
		store:     store,
		dense:     dense,
		sparse:    sparse,
		extractor: extractor,
		split:     splitter.New(cfg.ChunkSize, cfg.ChunkOverlap),
		cfg:       cfg,
		jobs:      make(chan Job, cfg.QueueSize),
		logger:    logger,
	}
}

// Start runs numWorkers goroutines reading from the job queue. Documents
// from the same or different agents are processed concurrently; the
// deterministic point id scheme keeps concurrent documents from colliding.
func (i *DocumentIngestor) Start(ctx context.Context, numWorkers int) {
	for w := 1; w <= numWorkers; w++ {
		go func(w int) {
			for {
				select {
				case <-ctx.Done():
					i.logger.Info("ingest worker shutting down", zap.Int("worker", w))
					return
				case job := <-i.jobs:
					i.logger.Info("processing document",
						zap.Int64("document_id", job.DocumentID),
						zap.Int64("agent_id", job.AgentID),
						zap.Int("worker", w))
					if err := i.ProcessOne(ctx, job); err != nil {
						i.logger.Error("document indexing failed",
							zap.Int64("document_id", job.DocumentID),
							zap.Error(err))
					}
				}
			}
		}(w)
	}
}

// StartIngestion flips the document to processing synchronously, then
// schedules the background run. The caller returns as soon as the job is
// queued; it must not wait for indexing to finish. When the queue is full
// and the context ends first, the document is marked error so it never
// stays stuck in processing.
func (i *DocumentIngestor) StartIngestion(ctx context.Context, filePath string, agentID, documentID int64) error {
	if err := i.db.UpdateDocumentStatus(ctx, documentID, models.StatusProcessing); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	select {
	case i.jobs <- Job{FilePath: filePath, AgentID: agentID, DocumentID: documentID}:
		return nil
	case <-ctx.Done():
		statusCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := i.db.UpdateDocumentStatus(statusCtx, documentID, models.StatusError); err != nil {
			i.logger.Error("could not mark document as error",
				zap.Int64("document_id", documentID), zap.Error(err))
		}
		return fmt.Errorf("enqueue document %d: %w", documentID, ctx.Err())
	}
}

// ProcessOne runs the whole pipeline for a single document and always leaves
// it in a terminal status. The source file is removed whether the run
// succeeded or not.
func (i *DocumentIngestor) ProcessOne(ctx context.Context, j Job) error {
	runCtx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	defer func() {
		if err := os.Remove(j.FilePath); err != nil && !os.IsNotExist(err) {
			i.logger.Warn("could not remove source file",
				zap.String("path", j.FilePath), zap.Error(err))
		}
	}()

	runErr := i.run(runCtx, j)

	// The terminal flip uses a fresh context: the run context may already be
	// expired, and a document must never stay stuck in processing.
	statusCtx, cancelStatus := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStatus()

	if runErr != nil {
		if err := i.db.UpdateDocumentStatus(statusCtx, j.DocumentID, models.StatusError); err != nil {
			i.logger.Error("could not mark document as error",
				zap.Int64("document_id", j.DocumentID), zap.Error(err))
		}
		return runErr
	}
	return i.db.UpdateDocumentStatus(statusCtx, j.DocumentID, models.StatusReady)
}

// run executes extract → split → embed → upsert. Nothing is committed to
// the store unless every chunk embedded: the upsert is one atomic batch, so
// a failure mid-document leaves no partial index behind.
func (i *DocumentIngestor) run(ctx context.Context, j Job) error {
	text, err := i.extractor.ExtractFile(j.FilePath)
	if err != nil {
		return err
	}

	chunks := i.split.Split(text)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: document produced no chunks", core.ErrExtraction)
	}

	dense := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for start := 0; start < len(chunks); start += i.cfg.BatchSize {
		end := start + i.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		g.Go(func() error {
			vecs, err := i.dense.EmbedTexts(gctx, chunks[start:end])
			if err != nil {
				return err
			}
			copy(dense[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	source := filepath.Base(j.FilePath)
	records := make([]models.VectorRecord, len(chunks))
	for idx, chunkText := range chunks {
		records[idx] = models.VectorRecord{
			ID:     qdrant.PointID(j.DocumentID, idx),
			Dense:  dense[idx],
			Sparse: i.sparse.EmbedSparse(chunkText),
			Payload: models.Payload{
				AgentID:    j.AgentID,
				DocumentID: j.DocumentID,
				Text:       chunkText,
				Source:     source,
			},
		}
	}

	if err := i.store.Upsert(ctx, records); err != nil {
		return err
	}

	i.logger.Info("document indexed",
		zap.Int64("document_id", j.DocumentID),
		zap.Int64("agent_id", j.AgentID),
		zap.Int("chunks", len(records)))
	return nil
}
