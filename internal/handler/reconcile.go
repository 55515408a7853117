package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/service"
)

const maxRemovedNodesInResponse = 500

type ReconcileHandler struct {
	Reconcile *service.ReconcileService
}

func (h *ReconcileHandler) Register(r *gin.Engine) {
	r.POST("/api/mark-removed", h.markRemoved)
}

type markRemovedRequest struct {
	County       string          `json:"county"`
	State        string          `json:"state"`
	CurrentNodes json.RawMessage `json:"current_nodes" swaggertype:"array,string"`
}

// @Summary Soft-remove listings missing from a complete crawl
// @Tags reconcile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dry_run query bool false "compute without writing"
// @Param body body markRemovedRequest true "observed node set"
// @Success 200 {object} service.ReconcileResult
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/mark-removed [post]
func (h *ReconcileHandler) markRemoved(c *gin.Context) {
	if h.Reconcile == nil {
		Error(c, http.StatusInternalServerError, "reconcile service unavailable", nil)
		return
	}
	var req markRemovedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	nodes, err := decodeNodes(req.CurrentNodes)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid input: current_nodes must be an array", nil)
		return
	}
	opts := service.ReconcileOptions{DryRun: boolQueryDefault(c, "dry_run", false)}
	res, err := h.Reconcile.Reconcile(c.Request.Context(), req.County, req.State, nodes, opts)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	var meta map[string]any
	if len(res.RemovedNodes) > maxRemovedNodesInResponse {
		meta = map[string]any{"removed_nodes_truncated": true, "removed_nodes_total": len(res.RemovedNodes)}
		res.RemovedNodes = res.RemovedNodes[:maxRemovedNodesInResponse]
	}
	Ok(c, res, meta)
}
