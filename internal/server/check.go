package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/search"
)

// handleCheck accepts a multipart upload in field "file" and checks it.
// Progress streams as server-sent events unless ?stream=false.
func (s *Server) handleCheck(c *gin.Context) {
	// Allow room for multipart framing around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+64<<10)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, CodeTooLarge, s.tooLargeMessage(), nil)
			return
		}
		respondError(c, http.StatusBadRequest, CodeBadRequest, "missing file", nil)
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, CodeTooLarge, s.tooLargeMessage(), nil)
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "only PDF files are allowed", nil)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	source := filepath.Base(file.Filename)
	ctx := c.Request.Context()

	if c.DefaultQuery("stream", "true") == "false" {
		report, err := s.checker.CheckReader(ctx, source, f, nil)
		status, code := http.StatusOK, CodeOK
		if err != nil {
			s.logger.Printf("check %s: %v", source, err)
			status, code = statusFor(err)
		} else {
			s.logger.Printf("check %s: %d claims verified", source, len(report.Verifications))
		}

		if c.Query("format") == "html" && report != nil {
			s.respondHTML(c, status, report)
			return
		}
		if err != nil {
			respondError(c, status, code, err.Error(), report)
			return
		}
		respondOK(c, report)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	report, err := s.checker.CheckReader(ctx, source, f, func(ev pipeline.Event) {
		c.SSEvent(string(ev.Type), ev)
		c.Writer.Flush()
	})
	if err != nil {
		s.logger.Printf("check %s: %v", source, err)
		return
	}
	s.logger.Printf("check %s: %d claims verified", source, len(report.Verifications))
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("file too large (max %dMB)", s.cfg.MaxUploadBytes>>20)
}

// respondHTML writes the rendered report page; a partial report keeps the run's status
func (s *Server) respondHTML(c *gin.Context, status int, report *model.Report) {
	page, err := s.renderer.HTML(report)
	if err != nil {
		s.logger.Printf("render %s: %v", report.Source, err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to render report", nil)
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// statusFor maps a failed run to an HTTP status.
// Unreadable uploads are the client's fault; the rest are upstream failures.
func statusFor(err error) (int, int) {
	switch {
	case search.IsRateLimited(err):
		return http.StatusTooManyRequests, CodeRateLimited
	case search.IsUnauthorized(err):
		return http.StatusServiceUnavailable, CodeUnavailable
	}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) && stageErr.Stage == pipeline.StageExtractText {
		return http.StatusUnprocessableEntity, CodeUnprocessable
	}
	if errors.As(err, &stageErr) {
		return http.StatusBadGateway, CodeUpstream
	}
	return http.StatusInternalServerError, CodeInternal
}
