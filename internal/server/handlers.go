package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/adaudit/adaudit/internal/crawler"
	"github.com/adaudit/adaudit/internal/model"
)

// scanRequest is the body of POST /api/scan.
type scanRequest struct {
	URL string `json:"url"`
}

// scanResponse wraps a completed report with a server-assigned scan ID.
type scanResponse struct {
	ScanID string            `json:"scan_id"`
	Report *model.ScanReport `json:"report"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status              string `json:"status"`
	ModerationAvailable bool   `json:"moderation_available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := validateSiteURL(req.URL); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.scanTimeout)
	defer cancel()

	scanID := uuid.NewString()
	s.logger.Info("scan started", "scan_id", scanID, "site", req.URL)

	report := model.NewScanReport(req.URL)
	if err := s.factory().Execute(ctx, report); err != nil {
		s.logger.Error("scan failed", "scan_id", scanID, "site", req.URL, "error", err)

		if errors.Is(err, crawler.ErrHomepageUnreachable) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "homepage unreachable: " + req.URL})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "scan failed: " + err.Error()})
		return
	}

	s.logger.Info("scan completed",
		"scan_id", scanID,
		"site", req.URL,
		"score", report.Score,
		"violations", report.TotalViolations(),
	)

	writeJSON(w, http.StatusOK, scanResponse{ScanID: scanID, Report: report})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:              "ok",
		ModerationAvailable: s.moderation != nil && s.moderation.Available(),
	})
}

// validateSiteURL accepts absolute http/https URLs with a host.
func validateSiteURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("url is not valid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if u.Host == "" {
		return errors.New("url must include a host")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
