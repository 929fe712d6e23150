package handlers

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
	"resume-matcher/internal/services"
)

type MatchHandler struct {
	orchestrator *services.MatchOrchestrator
	matchJobRepo repositories.MatchJobRepository
	worker       services.Worker
	storage      services.StorageService
	textProvider services.RawTextProvider
	logger       *zap.Logger
}

func NewMatchHandler(
	orchestrator *services.MatchOrchestrator,
	matchJobRepo repositories.MatchJobRepository,
	worker services.Worker,
	storage services.StorageService,
	textProvider services.RawTextProvider,
	logger *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		orchestrator: orchestrator,
		matchJobRepo: matchJobRepo,
		worker:       worker,
		storage:      storage,
		textProvider: textProvider,
		logger:       logger,
	}
}

// HandleMatch handles POST /match. It runs the full pipeline synchronously
// and always answers 200 with the accumulated response; partial failures
// are listed in its errors field.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	if strings.TrimSpace(req.JobText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_text is required",
		})
	}

	response := h.orchestrator.Match(c.UserContext(), req)
	return c.JSON(response)
}

// HandleMatchAsync handles POST /match/async. The request is stored as a
// queued job and handed to the worker; the caller polls /match/result/:id.
func (h *MatchHandler) HandleMatchAsync(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	if strings.TrimSpace(req.JobText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_text is required",
		})
	}

	job := &models.MatchJob{
		ID:            uuid.New(),
		Status:        models.StatusQueued,
		ResumeText:    req.ResumeText,
		JobText:       req.JobText,
		ResumeEmail:   req.ResumeEmail,
		ExternalJobID: req.ExternalJobID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.matchJobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create match job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AsyncMatchResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleMatchUpload handles POST /match/upload: multipart form with a
// "resume" file and a "job_description" file. Files are saved, converted to
// text, and matched synchronously; the temporary files are removed after.
func (h *MatchHandler) HandleMatchUpload(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	jobFile, err := c.FormFile("job_description")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description file is required",
		})
	}

	resumeText, cleanupResume, err := h.extractUpload(resumeFile, "resume")
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer cleanupResume()

	jobText, cleanupJob, err := h.extractUpload(jobFile, "job")
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer cleanupJob()

	response := h.orchestrator.Match(c.UserContext(), models.MatchRequest{
		ResumeText:    resumeText,
		JobText:       jobText,
		ResumeEmail:   c.FormValue("resume_email"),
		ExternalJobID: c.FormValue("external_job_id"),
	})
	return c.JSON(response)
}

func (h *MatchHandler) extractUpload(file *multipart.FileHeader, fileType string) (string, func(), error) {
	filename, filePath, err := h.storage.SaveFile(file, fileType)
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := h.storage.DeleteFile(filename); err != nil {
			h.logger.Warn("failed to remove uploaded file",
				zap.String("filename", filename),
				zap.Error(err))
		}
	}

	text, err := h.textProvider.ExtractText(filePath)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return text, cleanup, nil
}
