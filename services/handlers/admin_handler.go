package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/shared"
)

type AdminHandler struct {
	jobSvc  JobServiceInterface
	rateSvc RateLimitAdminInterface
}

func NewAdminHandler(jobSvc JobServiceInterface, rateSvc RateLimitAdminInterface) *AdminHandler {
	return &AdminHandler{
		jobSvc:  jobSvc,
		rateSvc: rateSvc,
	}
}

// @Summary List background jobs
// @Description Names of all jobs that can be triggered
// @Tags jobs
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]string}
// @Router /api/v1/jobs [get]
func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Jobs", h.jobSvc.Jobs())
}

// @Summary Trigger a background job
// @Description Run the named job synchronously and return its result
// @Tags jobs
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param name path string true "Job name"
// @Success 200 {object} shared.Response{data=dto.JobRunResponse}
// @Router /api/v1/jobs/{name}/run [post]
func (h *AdminHandler) RunJob(c *fiber.Ctx) error {
	name := c.Params("name")

	startedAt := time.Now().UTC()
	result, err := h.jobSvc.RunJob(name)
	if err != nil {
		return shared.NewBadRequestError(err, err.Error())
	}

	resp := dto.JobRunResponse{
		Job:        name,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Result:     result,
	}
	return shared.ResponseJSON(c, http.StatusOK, "Job completed", resp)
}

// @Summary Rate limiter stats
// @Description Entry counts and the most active keys
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param top query int false "How many top keys to include" default(10)
// @Success 200 {object} shared.Response{data=dto.RateLimitStats}
// @Router /api/v1/admin/rate-limits/stats [get]
func (h *AdminHandler) RateLimitStats(c *fiber.Ctx) error {
	top, _ := strconv.Atoi(c.Query("top", "10"))

	stats, err := h.rateSvc.Stats(top)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Rate limit stats", stats)
}

// @Summary Sweep expired rate-limit entries
// @Description Delete entries whose window expired and report how many were removed
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=map[string]int64}
// @Router /api/v1/admin/rate-limits/cleanup [post]
func (h *AdminHandler) RateLimitCleanup(c *fiber.Ctx) error {
	deleted, err := h.rateSvc.CleanupExpiredEntries()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Cleanup complete", map[string]int64{"deleted": deleted})
}

// @Summary Reset a rate-limit key
// @Description Remove the counter for one key so the client starts a fresh window
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param key query string true "Rate limit key"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/rate-limits/reset [post]
func (h *AdminHandler) RateLimitReset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return shared.NewBadRequestError(nil, "key is required")
	}

	if err := h.rateSvc.ResetKey(key); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Rate limit key reset", nil)
}
