package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Tax-deed ingestion service

Receives records from county tax-deed scrapers, keeps one row per
(county, state, node) and soft-removes listings that disappear from the source.

## Auth

All /api/* routes require "Authorization: Bearer <ingest token>".
Health, metrics and docs endpoints are public.

## Scraper flow

1. POST /api/scraper-run {"mode":"start"}
2. GET  /api/scraper-state to resume pagination
3. POST /api/existence-check {"nodes":[...]} to skip known listings
4. POST /api/ingest (or /api/ingest/batch) per new or changed listing
5. POST /api/scraper-state with the new offset between pages
6. POST /api/mark-removed {"current_nodes":[...]} after a complete crawl
7. POST /api/scraper-run {"mode":"finish", counters...}

## Routes

- GET  /healthz, /readyz, /metrics
- GET  /swagger/index.html
- POST /api/ingest
- POST /api/ingest/batch
- POST /api/existence-check
- POST /api/mark-removed?dry_run=true
- GET|POST /api/scraper-state?scraper=
- GET|POST /api/scraper-run
- GET|PUT /api/properties/:id
`)
	})
}
