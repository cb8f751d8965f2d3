package meshlog

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshlog/core/internal/models"
	"github.com/meshlog/core/internal/pkg/idgen"
	"github.com/meshlog/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler exposes the logging operations over HTTP.
type Handler struct {
	services map[models.Region]*Service
	logger   *zap.Logger
}

// NewHandler builds one Service per region against the given stores.
func NewHandler(stores map[models.Region]Store, cfg Config, ids idgen.Generator, logger *zap.Logger) *Handler {
	services := make(map[models.Region]*Service, len(stores))
	for region, store := range stores {
		regionCfg := cfg
		regionCfg.Region = region
		services[region] = NewService(store, regionCfg, ids, logger)
	}
	return &Handler{services: services, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/logs")
	g.POST("", h.log)
	g.GET("", h.recent)
}

func (h *Handler) service(rawRegion string) *Service {
	region, _ := models.ParseRegion(rawRegion)
	return h.services[region]
}

func (h *Handler) log(c *gin.Context) {
	var body logRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	svc := h.service(body.Region)
	result, err := svc.Log(c.Request.Context(), LogInput{
		Timestamp: body.Timestamp,
		Method:    body.Method,
		URL:       body.URL,
		Query:     body.Query,
		Headers:   body.Headers,
	})
	if err != nil {
		h.logger.Error("log request failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"logId":         result.ID,
		"region":        result.Region,
		"message":       "request logged successfully",
		"statsForToday": result.Summary,
	})
}

func (h *Handler) recent(c *gin.Context) {
	day := strings.TrimSpace(c.Query("day"))
	if day != "" {
		if _, err := time.Parse(dayLayout, day); err != nil {
			response.BadRequest(c, "day must be formatted as YYYY-MM-DD")
			return
		}
	}
	// Non-numeric limits fall through to the service default. No upper bound
	// is enforced; callers impose their own cap.
	limit, _ := strconv.Atoi(c.Query("limit"))

	svc := h.service(c.Query("region"))
	result, err := svc.Recent(c.Request.Context(), RecentQuery{Day: day, Limit: limit})
	if err != nil {
		h.logger.Error("fetch logs failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"logs":           result.Logs,
		"statistics":     result.Statistics,
		"requestedLimit": result.RequestedLimit,
		"totalAvailable": result.TotalAvailable,
	})
}
