package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/model"
	"github.com/Simple2B/bidhive-ml-api/internal/queue"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
	"github.com/Simple2B/bidhive-ml-api/internal/util"
)

// contractMeta is the optional contract metadata attached to an upload.
type contractMeta struct {
	Title    string
	Customer string
	Value    int64
	Currency string
}

// RegisterUploadRoutes wires the admin-only document upload endpoint.
func RegisterUploadRoutes(app fiber.Router, cfg *config.Config, repo service.FileRepo, storage service.ObjectStorage, q *queue.Queue) {
	app.Post("/documents/upload",
		auth.Middleware(cfg), auth.AdminOnly(),
		UploadHandler(repo, storage, q))
}

// UploadHandler accepts one or more documents plus contract metadata.
// Every file must pass extension validation; any per-file failure turns the
// response into a 400 listing the filename and reason. A re-upload of the
// same (company, filename, content) is skipped, not failed.
func UploadHandler(repo service.FileRepo, storage service.ObjectStorage, q *queue.Queue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files uploaded"})
		}

		files := form.File["files"]
		if len(files) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files uploaded"})
		}

		info := auth.UserFromCtx(c)
		meta := parseContractMeta(form)

		results := make([]map[string]interface{}, 0, len(files))
		failures := make([]map[string]interface{}, 0)

		for _, file := range files {
			record, skipped, err := processSingleFile(c.Context(), file, info.CompanyID, meta, repo, storage, q)
			if err != nil {
				failures = append(failures, map[string]interface{}{
					"filename": file.Filename,
					"reason":   err.Error(),
				})
				continue
			}
			results = append(results, map[string]interface{}{
				"id":       record.ID,
				"fileName": record.FileName,
				"status":   record.Status,
				"skipped":  skipped,
			})
		}

		if len(failures) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    "some files were not accepted",
				"failures": failures,
				"files":    results,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "files uploaded successfully",
			"fileCount": len(results),
			"files":     results,
		})
	}
}

func parseContractMeta(form *multipart.Form) contractMeta {
	meta := contractMeta{
		Title:    formValue(form, "contract_title"),
		Customer: formValue(form, "customer_name"),
		Currency: formValue(form, "currency_type"),
	}
	if meta.Currency == "" {
		meta.Currency = "USD"
	}
	if raw := formValue(form, "contract_value"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			meta.Value = v
		}
	}
	return meta
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// processSingleFile walks one file through received -> stored -> queued, or
// short-circuits to duplicate-skipped when the dedupe key matches an
// earlier upload.
func processSingleFile(ctx context.Context, file *multipart.FileHeader, companyID uint, meta contractMeta, repo service.FileRepo, storage service.ObjectStorage, q *queue.Queue) (*model.UploadedFile, bool, error) {
	if !util.IsDocument(file.Filename) {
		return nil, false, fmt.Errorf("extension %s is not allowed", util.GetFileExt(file.Filename))
	}

	f, err := file.Open()
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Printf("failed to close file: %v", cerr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, err
	}

	checksum := util.Checksum(data)

	existing, err := repo.FindByDedupeKey(companyID, file.Filename, checksum)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		// The first record stays authoritative, nothing is re-stored or
		// re-parsed.
		return existing, true, nil
	}

	record := &model.UploadedFile{
		FileName:      file.Filename,
		CompanyID:     companyID,
		Checksum:      checksum,
		Status:        model.StatusReceived,
		ContractTitle: meta.Title,
		CustomerName:  meta.Customer,
		ContractValue: meta.Value,
		CurrencyType:  meta.Currency,
	}
	if err := repo.Create(record); err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("uploads/%d/%d_%s", companyID, record.ID, file.Filename)
	if err := storage.Put(ctx, key, data); err != nil {
		if derr := repo.Delete(record.ID); derr != nil {
			fmt.Printf("failed to roll back record %d: %v", record.ID, derr)
		}
		return nil, false, err
	}

	if err := repo.UpdateStoragePath(record.ID, key, model.StatusStored); err != nil {
		return nil, false, err
	}
	record.StoragePath = key
	record.Status = model.StatusStored

	queue.ProduceParseFile(q, record.ID)
	if err := repo.UpdateStatus(record.ID, model.StatusQueued); err != nil {
		return nil, false, err
	}
	record.Status = model.StatusQueued

	return record, false, nil
}
