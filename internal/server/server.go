// Package server exposes the extraction pipeline over HTTP. The wire
// contract follows the upstream QMS client: multipart uploads in, JSON
// envelopes out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/materialqc/specsheet/internal/spec"
)

// maxUploadBytes bounds multipart memory use; larger files spill to disk.
const maxUploadBytes = 32 << 20

// Extractor is the pipeline surface the server needs.
type Extractor interface {
	Process(ctx context.Context, fileName string, pdf []byte, checklist []spec.Item) ([]spec.Item, error)
	ConvertMarkdown(ctx context.Context, fileName string, pdf []byte) (string, error)
}

type Server struct {
	logger   *slog.Logger
	pipeline Extractor
	mux      *http.ServeMux
}

var metricsOnce sync.Once

func NewServer(logger *slog.Logger, pipeline Extractor) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	metricsOnce.Do(initMetrics)

	s := &Server{logger: logger, pipeline: pipeline, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/file/extract-fields", s.handleExtractFields)
	s.mux.HandleFunc("POST /api/file/extract-markdown", s.handleExtractMarkdown)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleExtractFields(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.badRequest(w, "未提供PDF文件")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, "未提供PDF文件")
		return
	}
	defer file.Close()

	dataList := r.FormValue("dataList")
	if dataList == "" {
		s.badRequest(w, "未提供规格表数据(JSON格式)")
		return
	}

	checklist, err := spec.ParseChecklist([]byte(dataList))
	if err != nil {
		s.logger.Warn("server.extract_fields.bad_checklist", "file_name", header.Filename, "err", err)
		s.badRequest(w, err.Error())
		return
	}

	pdf, err := io.ReadAll(file)
	if err != nil {
		s.serverError(w, "extract-fields", header.Filename, fmt.Errorf("read upload: %w", err))
		return
	}

	checklistItems.Observe(float64(len(checklist)))

	items, err := s.pipeline.Process(r.Context(), header.Filename, pdf, checklist)
	if err != nil {
		s.serverError(w, "extract-fields", header.Filename, err)
		return
	}

	extractionsTotal.WithLabelValues("extract-fields", "ok").Inc()
	extractionDuration.WithLabelValues("extract-fields").Observe(time.Since(start).Seconds())
	s.logger.Info("server.extract_fields.ok",
		"file_name", header.Filename,
		"items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"dataList": items,
		"msg":      "处理成功",
	})
}

func (s *Server) handleExtractMarkdown(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.badRequest(w, "未提供PDF文件")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, "未提供PDF文件")
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		s.serverError(w, "extract-markdown", header.Filename, fmt.Errorf("read upload: %w", err))
		return
	}

	md, err := s.pipeline.ConvertMarkdown(r.Context(), header.Filename, pdf)
	if err != nil {
		s.serverError(w, "extract-markdown", header.Filename, err)
		return
	}

	extractionsTotal.WithLabelValues("extract-markdown", "ok").Inc()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, md)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
}

func (s *Server) serverError(w http.ResponseWriter, endpoint, fileName string, err error) {
	extractionsTotal.WithLabelValues(endpoint, "error").Inc()
	s.logger.Error("server.extract.failed", "endpoint", endpoint, "file_name", fileName, "err", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   err.Error(),
		"msg":     "处理失败",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		s.logger.Error("server.write_json.failed", "err", err)
	}
}
