package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"huffpack_go/internal/model"
	"huffpack_go/internal/repo"
	"huffpack_go/internal/service"
)

const (
	HeaderFileName = "X-File-Name"
	HeaderRunID    = "X-Run-ID"
)

type CodecHandler struct {
	svc     *service.CodecService
	maxBody int64
}

func NewCodecHandler(s *service.CodecService, maxBody int64) *CodecHandler {
	return &CodecHandler{svc: s, maxBody: maxBody}
}

func (h *CodecHandler) Encode(c *gin.Context) {
	h.transform(c, h.svc.EncodeBytes)
}

func (h *CodecHandler) Decode(c *gin.Context) {
	h.transform(c, h.svc.DecodeBytes)
}

type transformFunc func(ctx context.Context, name string, data []byte) ([]byte, *model.Run, error)

func (h *CodecHandler) transform(c *gin.Context, fn transformFunc) {
	body := c.Request.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, run, err := fn(c.Request.Context(), c.GetHeader(HeaderFileName), data)
	if run != nil {
		c.Header(HeaderRunID, run.ID)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if service.IsClientError(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", out)
}

func (h *CodecHandler) GetRun(c *gin.Context) {
	run, err := h.svc.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *CodecHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	runs, err := h.svc.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}
