package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/internal/config"
	"github.com/dotuffour/retreat-portal/pkg/core/services"
	"github.com/dotuffour/retreat-portal/pkg/store"
)

// maxUploadBytes caps payment-proof uploads at 10 MiB.
const maxUploadBytes = 10 << 20

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s server running - API active\n", h.cfg.EventName)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, h.renderer.RegisterPage)
}

func (h *Handler) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, h.renderer.AdminPage)
}

// renderPage buffers the template output so a render failure still gets an
// error status instead of a truncated 200.
func (h *Handler) renderPage(w http.ResponseWriter, render func(io.Writer, *config.Config) error) {
	var buf bytes.Buffer
	if err := render(&buf, h.cfg); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleRegister accepts a single attendee payload.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var registrant services.Registrant
	if err := decodeJSON(r, &registrant); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := services.Register(r.Context(), h.store, h.logger, []services.Registrant{registrant})
	if err != nil {
		h.logger.Warn("Registration failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Registration successful (%d attendee)", result.Count),
	})
}

type registerGroupRequest struct {
	Registrants []services.Registrant `json:"registrants"`
}

// handleRegisterGroup accepts a non-empty batch of attendee payloads.
func (h *Handler) handleRegisterGroup(w http.ResponseWriter, r *http.Request) {
	var req registerGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := services.Register(r.Context(), h.store, h.logger, req.Registrants)
	if err != nil {
		h.logger.Warn("Group registration failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Registration successful (%d attendees)", result.Count),
	})
}

// handleUpload proxies a payment-proof image to the image host and returns
// the public URL the registration payload should carry.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "image too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "image upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type loginRequest struct {
	Passphrase string `json:"passphrase"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// handleAdminLogin exchanges the operator passphrase for a signed,
// expiring session token.
func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !passphraseMatches(req.Passphrase, h.cfg.AdminPassphrase) {
		h.logger.Warn("Admin login rejected")
		writeError(w, http.StatusUnauthorized, "wrong access code")
		return
	}

	token, expires, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("Failed to issue session token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

// handleAdminData returns every attendee record in store order.
func (h *Handler) handleAdminData(w http.ResponseWriter, r *http.Request) {
	records, err := services.ListAttendees(r.Context(), h.store, h.logger)
	if err != nil {
		h.logger.Error("Admin data fetch failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

type approveRequest struct {
	ID       string `json:"id"`
	Position int    `json:"rowIndex"`
}

// handleAdminApprove confirms a record's payment by ID (preferred) or
// legacy row position.
func (h *Handler) handleAdminApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref := store.Ref{ID: req.ID, Position: req.Position}
	if err := services.Approve(r.Context(), h.store, h.logger, ref); err != nil {
		h.logger.Warn("Approve failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Status updated"})
}
