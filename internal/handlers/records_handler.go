package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-matcher/internal/repositories"
)

const defaultListLimit = 50

// RecordsHandler serves read-only listings of stored profiles and match
// verdicts.
type RecordsHandler struct {
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	matchRepo  repositories.MatchRepository
}

func NewRecordsHandler(
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	matchRepo repositories.MatchRepository,
) *RecordsHandler {
	return &RecordsHandler{
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		matchRepo:  matchRepo,
	}
}

// HandleListResumes handles GET /resumes.
func (h *RecordsHandler) HandleListResumes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	resumes, err := h.resumeRepo.FindAll(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list resumes",
		})
	}
	return c.JSON(fiber.Map{
		"count":   len(resumes),
		"resumes": resumes,
	})
}

// HandleListJobs handles GET /jobs.
func (h *RecordsHandler) HandleListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	jobs, err := h.jobRepo.FindAll(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}
	return c.JSON(fiber.Map{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

// HandleListMatches handles GET /matches.
func (h *RecordsHandler) HandleListMatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	matches, err := h.matchRepo.FindAll(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list match results",
		})
	}
	return c.JSON(fiber.Map{
		"count":   len(matches),
		"matches": matches,
	})
}
