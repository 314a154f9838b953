package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
	"github.com/fortestingfmm-hub/fund-monitor/internal/report"
)

// ResultProvider gives access to the published result sets.
type ResultProvider interface {
	Latest() *model.ResultSet
	Refresh(ctx context.Context) *model.ResultSet
}

// Handlers serves the valuation endpoints.
type Handlers struct {
	results ResultProvider
	started time.Time
}

func NewHandlers(results ResultProvider) *Handlers {
	return &Handlers{results: results, started: time.Now()}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	if rs := h.results.Latest(); rs != nil {
		body["last_cycle"] = rs.FinishedAt
	}
	c.JSON(http.StatusOK, body)
}

// ListValuations returns the latest result set.
func (h *Handlers) ListValuations(c *gin.Context) {
	rs := h.results.Latest()
	if rs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no valuation cycle has completed yet"})
		return
	}
	c.JSON(http.StatusOK, rs)
}

// GetValuation returns one fund's result with its contribution details.
func (h *Handlers) GetValuation(c *gin.Context) {
	code := c.Param("code")
	rs := h.results.Latest()
	if rs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no valuation cycle has completed yet"})
		return
	}
	res, ok := rs.Find(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "fund " + code + " is not monitored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cycle_id": rs.CycleID,
		"data":     res,
	})
}

// Refresh runs a valuation cycle synchronously and returns its result set.
// The cycle outlives a disconnecting client: its result set becomes the shared latest.
func (h *Handlers) Refresh(c *gin.Context) {
	rs := h.results.Refresh(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusOK, rs)
}

// Report returns the latest result set as markdown.
func (h *Handlers) Report(c *gin.Context) {
	rs := h.results.Latest()
	if rs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no valuation cycle has completed yet"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(rs, c.Query("details") == "true")))
}
