package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/parser"
	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/types"
	"github.com/jeremiep/portfolio-be/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadHandler accepts document uploads, keeps a timestamped copy under the
// upload directory and feeds the in-memory content into the ingestion
// pipeline.
type UploadHandler struct {
	ingestion *service.IngestionService
	factory   *parser.Factory
	uploadDir string
	logger    *zap.Logger
}

func NewUploadHandler(ingestion *service.IngestionService, factory *parser.Factory, uploadDir string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		ingestion: ingestion,
		factory:   factory,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

func (h *UploadHandler) HandleUpload(c *gin.Context) {
	if h.ingestion == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Success: false,
			Message: types.RAGDisabledMessage,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "No file uploaded",
		})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "File too large, maximum size is 10MB",
		})
		return
	}

	// Validate the extension before reading a byte of content.
	if !h.factory.Supports(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: fmt.Sprintf("Unsupported file type. Supported: %s",
				strings.Join(h.factory.SupportedExtensions(), ", ")),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: "Failed to read uploaded file",
		})
		return
	}

	contentType := c.PostForm("contentType")
	if contentType == "" {
		contentType = "document"
	}

	savedPath, err := utils.SaveUpload(fileHeader.Filename, bytes.NewReader(content), h.uploadDir)
	if err != nil {
		h.logger.Error("failed to store uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: "Failed to store uploaded file",
		})
		return
	}

	if !h.ingestion.IngestFromBuffer(c.Request.Context(), content, fileHeader.Filename, contentType) {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: "File ingestion failed",
		})
		return
	}

	h.logger.Info("file uploaded and ingested",
		zap.String("file", fileHeader.Filename),
		zap.String("stored_at", savedPath),
		zap.Int64("size", fileHeader.Size),
	)
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "File ingested successfully",
		Data: types.UploadResponse{
			FileName:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: contentType,
		},
	})
}
