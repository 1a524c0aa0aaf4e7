package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/dataset"
	"github.com/Simple2B/bidhive-ml-api/internal/model"
	"github.com/Simple2B/bidhive-ml-api/internal/parser"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
	"github.com/Simple2B/bidhive-ml-api/internal/util"
)

const TopicParseFile = "parse_file"

// ParseJob is one background parse of an uploaded file. Delivery is
// at-least-once, so the worker must stay idempotent.
type ParseJob struct {
	ID       uuid.UUID
	FileID   uint
	Attempts int
}

// ParseWorker runs the parse/embed/merge pipeline for one job.
type ParseWorker struct {
	Cfg      *config.Config
	Repo     service.FileRepo
	Storage  service.ObjectStorage
	Datasets *service.DatasetStore
	Embedder service.Embedder
	Locks    *CompanyLocks
}

// ProduceParseFile enqueues a parse job for the file.
func ProduceParseFile(q *Queue, fileID uint) {
	q.Produce(TopicParseFile, ParseJob{ID: uuid.New(), FileID: fileID})
}

// ConsumeParseFile starts n workers for the parse_file topic. A failed job
// is re-enqueued until the attempt limit, then logged and left in its
// current state for manual intervention.
func ConsumeParseFile(q *Queue, w *ParseWorker, n int) {
	q.RegisterConsumer(TopicParseFile, func(msg Message) {
		job, ok := msg.Data.(ParseJob)
		if !ok {
			log.Println("Invalid payload for parse file, skipping")
			return
		}

		if err := w.Handle(job); err != nil {
			job.Attempts++
			if job.Attempts < w.Cfg.ParseMaxAttempts {
				log.Printf("Parse job %s for file %d failed (attempt %d), retrying: %v",
					job.ID, job.FileID, job.Attempts, err)
				q.Produce(TopicParseFile, job)
				return
			}
			log.Printf("Parse job %s for file %d failed after %d attempts, giving up: %v",
				job.ID, job.FileID, job.Attempts, err)
		}
	}, n)
}

// Handle runs the whole pipeline for one file: fetch, extract, parse,
// embed, merge, mark processed. Already-processed files short-circuit so a
// redelivered job is a no-op.
func (w *ParseWorker) Handle(job ParseJob) error {
	record, err := w.Repo.FindByID(job.FileID)
	if err != nil {
		return fmt.Errorf("load file record %d: %w", job.FileID, err)
	}
	if record == nil {
		return fmt.Errorf("file record %d not found", job.FileID)
	}
	if record.Processed {
		log.Printf("File %d already processed, skipping", record.ID)
		return nil
	}

	ctx := context.Background()

	if err := w.Repo.UpdateStatus(record.ID, model.StatusParsing); err != nil {
		return fmt.Errorf("mark file %d parsing: %w", record.ID, err)
	}

	data, err := w.Storage.Get(ctx, record.StoragePath)
	if err != nil {
		return fmt.Errorf("fetch object %s: %w", record.StoragePath, err)
	}

	text, err := util.ExtractText(record.FileName, data)
	if err != nil {
		return fmt.Errorf("extract text from %s: %w", record.FileName, err)
	}

	p := parser.Parser{AllowDuplicateSuffix: w.Cfg.AllowDuplicateSuffix}
	rows, err := p.Parse(record.ID, text)
	if err != nil {
		return fmt.Errorf("parse %s: %w", record.FileName, err)
	}

	// Embedding failures fail the whole job: no partial rows are merged
	// and the retry redoes the batch.
	if len(rows) > 0 {
		ectx, cancel := context.WithTimeout(ctx, w.Cfg.EmbeddingTimeout)
		defer cancel()

		questions := make([]string, len(rows))
		for i, row := range rows {
			questions[i] = row.Question
		}
		vectors, err := w.Embedder.EmbedTexts(ectx, questions)
		if err != nil {
			return fmt.Errorf("embed questions for file %d: %w", record.ID, err)
		}
		if len(vectors) != len(rows) {
			return fmt.Errorf("embedder returned %d vectors for %d questions", len(vectors), len(rows))
		}
		for i := range rows {
			rows[i].QuestionEmbedding = vectors[i]
		}

		if w.Cfg.EmbedAnswers {
			answers := make([]string, len(rows))
			for i, row := range rows {
				answers[i] = row.Answer
			}
			vectors, err := w.Embedder.EmbedTexts(ectx, answers)
			if err != nil {
				return fmt.Errorf("embed answers for file %d: %w", record.ID, err)
			}
			if len(vectors) != len(rows) {
				return fmt.Errorf("embedder returned %d vectors for %d answers", len(vectors), len(rows))
			}
			for i := range rows {
				rows[i].AnswerEmbedding = vectors[i]
			}
		}
	}

	// Appends for one company are serialized: load-append-save on a shared
	// CSV loses rows when two jobs interleave.
	if err := w.mergeRows(ctx, record.CompanyID, rows); err != nil {
		return fmt.Errorf("merge rows for company %d: %w", record.CompanyID, err)
	}

	if w.Cfg.DeleteAfterParse {
		if err := w.Storage.Delete(ctx, record.StoragePath); err != nil {
			// The dataset already has the rows, only the transient copy
			// lingers. The object cleaner picks it up later.
			log.Printf("Delete of transient object %s failed: %v", record.StoragePath, err)
		}
	}

	if err := w.Repo.MarkProcessed(record.ID); err != nil {
		return fmt.Errorf("mark file %d processed: %w", record.ID, err)
	}

	log.Printf("Parsing succeed for %s (%d rows)", record.FileName, len(rows))
	return nil
}

func (w *ParseWorker) mergeRows(ctx context.Context, companyID uint, rows []dataset.Row) error {
	w.Locks.Lock(companyID)
	defer w.Locks.Unlock(companyID)

	ds, err := w.Datasets.Load(ctx, companyID)
	if err != nil {
		return err
	}
	if err := ds.Append(rows); err != nil {
		return err
	}
	return w.Datasets.Save(ctx, companyID, ds)
}
