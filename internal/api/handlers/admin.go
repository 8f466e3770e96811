// Package handlers provides HTTP request handlers for the scanvault API.
// This file implements the write endpoints: bulk insert and delete-all.
package handlers

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/anstrom/scanvault/internal/api/middleware"
	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/store"
)

//go:embed templates/delete.html
var deleteConfirmationPage []byte

// AdminHandler handles the endpoints that modify the document store.
type AdminHandler struct {
	store       store.Store
	logger      *logging.Logger
	maxBodySize int64
}

// NewAdminHandler creates a new admin handler. maxBodySize caps the insert
// request body; zero or less means no limit.
func NewAdminHandler(s store.Store, logger *logging.Logger, maxBodySize int64) *AdminHandler {
	return &AdminHandler{
		store:       s,
		logger:      logger.WithComponent("handler").WithFields("handler", "admin"),
		maxBodySize: maxBodySize,
	}
}

// Insert stores a batch of scan documents.
//
// @Summary Insert scan documents
// @Description Stores every document of the array in one store call. Documents are not validated.
// @Tags admin
// @Accept json
// @Produce json
// @Param documents body []object true "Scan documents"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /insert [post]
func (h *AdminHandler) Insert(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	docs, err := document.DecodeBatch(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.ErrInvalidBody(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), err)
		} else {
			err = errors.ErrInvalidBody(err.Error(), err)
		}
		writeError(w, r, h.logger, err)
		return
	}

	n, err := h.store.InsertMany(r.Context(), docs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Documents inserted",
		"request_id", middleware.GetRequestID(r),
		"backend", h.store.Backend(),
		"count", n)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Inserted"})
}

// DeleteConfirmation serves the page that asks before deleting everything.
//
// @Summary Delete confirmation page
// @Tags admin
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /delete [get]
func (h *AdminHandler) DeleteConfirmation(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(deleteConfirmationPage)
}

// PerformDelete removes every stored document.
//
// @Summary Delete all documents
// @Description Removes every document from the store. There is no undo.
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /perform_delete [delete]
func (h *AdminHandler) PerformDelete(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.DeleteAll(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Warn("All documents deleted",
		"request_id", middleware.GetRequestID(r),
		"backend", h.store.Backend(),
		"count", n)
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Deleted %d documents", n)})
}
