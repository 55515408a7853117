package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/service"
)

type IngestHandler struct {
	Ingest       *service.IngestService
	MaxBatchSize int
}

func (h *IngestHandler) Register(r *gin.Engine) {
	g := r.Group("/api/ingest")
	g.POST("", h.ingest)
	g.POST("/batch", h.batch)
}

// @Summary Ingest one scraped property
// @Tags ingest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body property.Payload true "scraped record"
// @Success 200 {object} service.IngestResult
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/ingest [post]
func (h *IngestHandler) ingest(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "ingest service unavailable", nil)
		return
	}
	var req property.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	res, err := h.Ingest.Ingest(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, res, nil)
}

type batchRequest struct {
	Items []json.RawMessage `json:"items"`
}

// @Summary Ingest a batch of scraped properties
// @Tags ingest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body batchRequest true "items"
// @Success 200 {object} service.BatchResult
// @Router /api/ingest/batch [post]
func (h *IngestHandler) batch(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "ingest service unavailable", nil)
		return
	}
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	limit := h.MaxBatchSize
	if limit <= 0 {
		limit = 500
	}
	if len(req.Items) == 0 {
		Error(c, http.StatusBadRequest, "items is required", nil)
		return
	}
	if len(req.Items) > limit {
		Error(c, http.StatusBadRequest, "too many items", map[string]any{"max": limit})
		return
	}

	// Items that fail to decode are reported in place; the rest still run.
	payloads := make([]property.Payload, 0, len(req.Items))
	decodeErrs := map[int]string{}
	for i, raw := range req.Items {
		var p property.Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			decodeErrs[i] = "invalid item: " + err.Error()
		}
		payloads = append(payloads, p)
	}

	res, err := h.Ingest.IngestBatch(c.Request.Context(), payloadsWithout(payloads, decodeErrs))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, mergeDecodeErrors(res, len(req.Items), decodeErrs), nil)
}

func payloadsWithout(items []property.Payload, skip map[int]string) []property.Payload {
	if len(skip) == 0 {
		return items
	}
	out := make([]property.Payload, 0, len(items)-len(skip))
	for i, it := range items {
		if _, ok := skip[i]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// mergeDecodeErrors re-expands a batch result to the request's indexes.
func mergeDecodeErrors(res service.BatchResult, total int, decodeErrs map[int]string) service.BatchResult {
	if len(decodeErrs) == 0 {
		return res
	}
	out := service.BatchResult{
		Total:   total,
		Created: res.Created,
		Updated: res.Updated,
		Failed:  res.Failed + len(decodeErrs),
		Items:   make([]service.BatchItemResult, 0, total),
	}
	next := 0
	for i := 0; i < total; i++ {
		if msg, ok := decodeErrs[i]; ok {
			out.Items = append(out.Items, service.BatchItemResult{Index: i, Action: service.ActionError, Error: msg})
			continue
		}
		item := res.Items[next]
		item.Index = i
		out.Items = append(out.Items, item)
		next++
	}
	return out
}
