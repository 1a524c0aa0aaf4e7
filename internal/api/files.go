package api

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
)

// RegisterFileListRoute wires the paginated per-company file listing.
func RegisterFileListRoute(app fiber.Router, cfg *config.Config, repo service.FileRepo) {
	app.Get("/files/list", auth.Middleware(cfg), func(c *fiber.Ctx) error {
		page := 1
		pageSize := 20

		if val := c.Query("page"); val != "" {
			if p, err := strconv.Atoi(val); err == nil && p > 0 {
				page = p
			} else if err != nil {
				log.Printf("invalid page parameter: %v", err)
			}
		}

		if val := c.Query("pageSize"); val != "" {
			if ps, err := strconv.Atoi(val); err == nil && ps > 0 {
				pageSize = ps
			} else if err != nil {
				log.Printf("invalid pageSize parameter: %v", err)
			}
		}

		info := auth.UserFromCtx(c)

		files, err := repo.ListByCompany(info.CompanyID, page, pageSize)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		result := make([]map[string]interface{}, len(files))
		for i, f := range files {
			result[i] = map[string]interface{}{
				"id":            f.ID,
				"fileName":      f.FileName,
				"status":        f.Status,
				"processed":     f.Processed,
				"contractTitle": f.ContractTitle,
				"customerName":  f.CustomerName,
				"createdAt":     f.CreatedAt,
				"updatedAt":     f.UpdatedAt,
			}
		}

		return c.JSON(fiber.Map{
			"page":     page,
			"pageSize": pageSize,
			"count":    len(files),
			"files":    result,
		})
	})
}
