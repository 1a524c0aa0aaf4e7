package api

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/model"
	"github.com/Simple2B/bidhive-ml-api/internal/search"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
)

// RegisterSearchRoutes wires the semantic search endpoint.
func RegisterSearchRoutes(app fiber.Router, cfg *config.Config, repo service.FileRepo, datasets *service.DatasetStore, embedder service.Embedder) {
	app.Post("/search/prompt", auth.Middleware(cfg), SearchHandler(cfg, repo, datasets, embedder))
}

// SearchHandler embeds the prompt, ranks the caller's company dataset by
// cosine similarity and returns the top rows with contract metadata.
func SearchHandler(cfg *config.Config, repo service.FileRepo, datasets *service.DatasetStore, embedder service.Embedder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Prompt string `json:"prompt"`
			TopK   int    `json:"top_k"`
		}
		if err := c.BodyParser(&req); err != nil || req.Prompt == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if req.TopK <= 0 {
			req.TopK = cfg.SearchTopK
		}

		info := auth.UserFromCtx(c)

		ctx, cancel := context.WithTimeout(c.Context(), cfg.EmbeddingTimeout)
		defer cancel()

		queryEmbedding, err := embedder.EmbedText(ctx, req.Prompt)
		if err != nil {
			log.Println("Embed query error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "embedding service unavailable",
			})
		}

		ds, err := datasets.Load(c.Context(), info.CompanyID)
		if err != nil {
			log.Println("Load dataset error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		results := search.TopN(ds.Rows, queryEmbedding, req.TopK)

		// Denormalize contract metadata in one query
		ids := make([]uint, 0, len(results))
		seen := make(map[uint]struct{}, len(results))
		for _, res := range results {
			if _, ok := seen[res.Row.FileInfoID]; !ok {
				seen[res.Row.FileInfoID] = struct{}{}
				ids = append(ids, res.Row.FileInfoID)
			}
		}

		files, err := repo.FindByIDs(ids)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		fileByID := make(map[uint]model.UploadedFile, len(files))
		for _, f := range files {
			fileByID[f.ID] = f
		}

		response := make([]fiber.Map, 0, len(results))
		for _, res := range results {
			fileInfo := fileByID[res.Row.FileInfoID]
			response = append(response, fiber.Map{
				"contract_title": fileInfo.ContractTitle,
				"customer_name":  fileInfo.CustomerName,
				"contract_value": fileInfo.ContractValue,
				"currency_type":  fileInfo.CurrencyType,
				"question":       res.Row.Question,
				"answer":         res.Row.Answer,
			})
		}

		return c.JSON(response)
	}
}
