package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/shared"
)

type MoodHandler struct {
	moodSvc   MoodServiceInterface
	reportSvc ReportServiceInterface
}

func NewMoodHandler(moodSvc MoodServiceInterface, reportSvc ReportServiceInterface) *MoodHandler {
	return &MoodHandler{
		moodSvc:   moodSvc,
		reportSvc: reportSvc,
	}
}

// @Summary Log a mood check-in
// @Description Record a mood score for the authenticated user
// @Tags moods
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param moodRequest body dto.CreateMoodLogRequest true "Mood score and optional note"
// @Success 201 {object} shared.Response{data=dto.MoodLogResponse}
// @Router /api/v1/moods [post]
func (h *MoodHandler) LogMood(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateMoodLogRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.moodSvc.LogMood(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Mood logged", resp)
}

// @Summary Get mood history
// @Description Recent mood logs plus the current consecutive-day streak
// @Tags moods
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Max logs to return" default(30)
// @Success 200 {object} shared.Response{data=dto.MoodHistoryResponse}
// @Router /api/v1/moods [get]
func (h *MoodHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	limit, _ := strconv.Atoi(c.Query("limit", "30"))

	resp, err := h.moodSvc.GetHistory(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Mood history", resp)
}

// @Summary Export mood logs
// @Description Export the user's full mood history to CSV and return a download link
// @Tags moods
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ExportResponse}
// @Router /api/v1/moods/export [post]
func (h *MoodHandler) Export(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.reportSvc.ExportMoodLogs(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Export ready", resp)
}
