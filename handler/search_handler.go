package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/types"
)

// SearchHandler exposes similarity search over the portfolio index.
type SearchHandler struct {
	rag *service.RAGService
}

func NewSearchHandler(rag *service.RAGService) *SearchHandler {
	return &SearchHandler{rag: rag}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	if h.rag == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Success: false,
			Message: types.RAGDisabledMessage,
		})
		return
	}

	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "Query must not be empty",
		})
		return
	}

	results := h.rag.SearchWithScores(c.Request.Context(), req.Query, req.TopK)
	items := make([]types.SearchResultItem, 0, len(results))
	for _, result := range results {
		items = append(items, types.SearchResultItem{
			Content:  result.Content,
			Metadata: result.Metadata,
			Score:    result.Score,
		})
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data: types.SearchResponse{
			Query:        req.Query,
			Results:      items,
			TotalResults: len(items),
		},
	})
}
