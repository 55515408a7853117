package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/service"
)

type ScraperHandler struct {
	Runs *service.RunStateService
}

func (h *ScraperHandler) Register(r *gin.Engine) {
	r.GET("/api/scraper-state", h.getState)
	r.POST("/api/scraper-state", h.saveState)
	r.GET("/api/scraper-run", h.listRuns)
	r.POST("/api/scraper-run", h.run)
}

// @Summary Read a scraper checkpoint
// @Tags scraper
// @Produce json
// @Security BearerAuth
// @Param scraper query string false "scraper name"
// @Success 200 {object} models.ScraperState
// @Router /api/scraper-state [get]
func (h *ScraperHandler) getState(c *gin.Context) {
	if h.Runs == nil {
		Error(c, http.StatusInternalServerError, "run state service unavailable", nil)
		return
	}
	st, err := h.Runs.GetState(c.Request.Context(), c.Query("scraper"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, st, nil)
}

type saveStateRequest struct {
	Scraper string `json:"scraper"`
	service.StatePatch
}

// @Summary Save a scraper checkpoint (sparse)
// @Tags scraper
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scraper query string false "scraper name"
// @Param body body service.StatePatch true "fields to change"
// @Success 200 {object} models.ScraperState
// @Router /api/scraper-state [post]
func (h *ScraperHandler) saveState(c *gin.Context) {
	if h.Runs == nil {
		Error(c, http.StatusInternalServerError, "run state service unavailable", nil)
		return
	}
	var req saveStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	scraper := strings.TrimSpace(c.Query("scraper"))
	if scraper == "" {
		scraper = req.Scraper
	}
	st, err := h.Runs.SaveState(c.Request.Context(), scraper, req.StatePatch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, st, nil)
}

type runRequest struct {
	Mode          string                 `json:"mode"`
	ScraperName   string                 `json:"scraper_name"`
	RunID         string                 `json:"run_id"`
	Status        string                 `json:"status"`
	Message       property.Field[string] `json:"message" swaggertype:"string"`
	FoundTotal    property.Field[int]    `json:"found_total" swaggertype:"integer"`
	Processed     property.Field[int]    `json:"processed" swaggertype:"integer"`
	Inserted      property.Field[int]    `json:"inserted" swaggertype:"integer"`
	Updated       property.Field[int]    `json:"updated" swaggertype:"integer"`
	Skipped       property.Field[int]    `json:"skipped" swaggertype:"integer"`
	RemovedMarked property.Field[int]    `json:"removed_marked" swaggertype:"integer"`
}

// @Summary Start or finish a scraper run
// @Tags scraper
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body runRequest true "mode start|finish"
// @Success 200 {object} models.ScraperRun
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/scraper-run [post]
func (h *ScraperHandler) run(c *gin.Context) {
	if h.Runs == nil {
		Error(c, http.StatusInternalServerError, "run state service unavailable", nil)
		return
	}
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	ctx := c.Request.Context()
	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "start":
		found := 0
		if req.FoundTotal.Valid {
			found = req.FoundTotal.Value
		}
		run, err := h.Runs.StartRun(ctx, req.ScraperName, req.RunID, found)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		Ok(c, run, nil)
	case "finish":
		run, err := h.Runs.FinishRun(ctx, req.ScraperName, req.RunID, service.RunFinish{
			Status:        req.Status,
			Message:       req.Message,
			FoundTotal:    req.FoundTotal,
			Processed:     req.Processed,
			Inserted:      req.Inserted,
			Updated:       req.Updated,
			Skipped:       req.Skipped,
			RemovedMarked: req.RemovedMarked,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		Ok(c, run, nil)
	default:
		Error(c, http.StatusBadRequest, "mode must be start|finish", nil)
	}
}

// @Summary Scraper run history, newest first
// @Tags scraper
// @Produce json
// @Security BearerAuth
// @Param scraper query string false "scraper name"
// @Param status query string false "running|ok|failed"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.ScraperRun
// @Router /api/scraper-run [get]
func (h *ScraperHandler) listRuns(c *gin.Context) {
	if h.Runs == nil {
		Error(c, http.StatusInternalServerError, "run state service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, err := h.Runs.ListRuns(c.Request.Context(), service.ListRunsParams{
		Scraper: c.Query("scraper"),
		Status:  c.Query("status"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "offset": offset, "count": len(items)})
}
