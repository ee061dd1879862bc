package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/types"
)

// IngestHandler dispatches ingestion actions. ingestion is nil when RAG is
// not enabled; every action then degrades to a structured 503.
type IngestHandler struct {
	ingestion *service.IngestionService
	factory   *parser.Factory
}

func NewIngestHandler(ingestion *service.IngestionService, factory *parser.Factory) *IngestHandler {
	return &IngestHandler{
		ingestion: ingestion,
		factory:   factory,
	}
}

func (h *IngestHandler) HandleIngest(c *gin.Context) {
	if h.ingestion == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Success: false,
			Message: types.RAGDisabledMessage,
		})
		return
	}

	var req types.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	switch req.Action {
	case types.ActionIngestPortfolio:
		stats := h.ingestion.IngestPortfolioContent(c.Request.Context())
		c.JSON(http.StatusOK, types.DataResponse{
			Success: true,
			Message: "Portfolio content ingestion completed",
			Data:    types.IngestResponse{Stats: stats},
		})

	case types.ActionIngestFile:
		if req.FilePath == "" {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Success: false,
				Message: "filePath is required for file ingestion",
			})
			return
		}
		ok := h.ingestion.IngestFile(c.Request.Context(), req.FilePath, req.ContentType)
		message := "File ingested successfully"
		if !ok {
			message = "File ingestion failed"
		}
		c.JSON(http.StatusOK, types.DataResponse{
			Success: ok,
			Message: message,
		})

	case types.ActionClearIndex:
		ok := h.ingestion.ClearIndex(c.Request.Context())
		message := "Index cleared successfully"
		if !ok {
			message = "Index clearing failed"
		}
		c.JSON(http.StatusOK, types.DataResponse{
			Success: ok,
			Message: message,
		})

	case types.ActionGetStats:
		stats := h.ingestion.GetIngestionStats(c.Request.Context())
		c.JSON(http.StatusOK, types.DataResponse{
			Success: true,
			Data:    types.StatusResponse{Enabled: true, Stats: stats},
		})

	default:
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "Invalid action. Supported actions: ingest_portfolio, ingest_file, clear_index, get_stats",
		})
	}
}

// HandleStatus reports whether RAG is enabled along with index stats and the
// supported upload formats.
func (h *IngestHandler) HandleStatus(c *gin.Context) {
	if h.ingestion == nil {
		c.JSON(http.StatusOK, types.StatusResponse{
			Enabled: false,
		})
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{
		Enabled:          true,
		Stats:            h.ingestion.GetIngestionStats(c.Request.Context()),
		SupportedFormats: h.factory.SupportedExtensions(),
	})
}
