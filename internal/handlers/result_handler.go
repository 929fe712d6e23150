package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

type ResultHandler struct {
	matchJobRepo repositories.MatchJobRepository
	logger       *zap.Logger
}

func NewResultHandler(matchJobRepo repositories.MatchJobRepository, logger *zap.Logger) *ResultHandler {
	return &ResultHandler{
		matchJobRepo: matchJobRepo,
		logger:       logger,
	}
}

// HandleGetResult handles GET /match/result/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	jobID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match job ID format",
		})
	}

	job, err := h.matchJobRepo.FindByID(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match job not found",
		})
	}

	response := models.MatchJobResultResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
	}

	if job.Status == models.StatusCompleted && len(job.Result) > 0 {
		var result models.MatchResponse
		if err := json.Unmarshal(job.Result, &result); err != nil {
			h.logger.Error("stored match result is not decodable",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to decode stored result",
			})
		}
		response.Result = &result
	}

	if job.Status == models.StatusFailed && job.ErrorMessage != nil {
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}
