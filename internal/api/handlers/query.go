// Package handlers provides HTTP request handlers for the scanvault API.
// This file implements the read endpoints.
package handlers

import (
	"net/http"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/metrics"
	"github.com/anstrom/scanvault/internal/query"
)

// QueryHandler serves the field and header searches.
type QueryHandler struct {
	engine  *query.Engine
	logger  *logging.Logger
	metrics metrics.Recorder
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(engine *query.Engine, logger *logging.Logger, recorder metrics.Recorder) *QueryHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &QueryHandler{
		engine:  engine,
		logger:  logger.WithComponent("handler").WithFields("handler", "query"),
		metrics: recorder,
	}
}

// ByTitle searches page titles.
//
// @Summary Search by title
// @Description Case-insensitive substring search over the title of every response sub-record.
// @Tags query
// @Produce json
// @Param title query string true "Text contained in the title"
// @Param from query int false "First entry to return" default(0)
// @Param to query int false "Entry after the last one to return"
// @Success 200 {object} query.Page[query.Entry]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /bytitle [get]
func (h *QueryHandler) ByTitle(w http.ResponseWriter, r *http.Request) {
	h.fieldPage(w, r, "bytitle", "title", document.FieldTitle)
}

// ByDomain searches domains. The result is not paginated.
//
// @Summary Search by domain
// @Tags query
// @Produce json
// @Param domain query string true "Text contained in the domain"
// @Success 200 {array} query.Entry
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /bydomain [get]
func (h *QueryHandler) ByDomain(w http.ResponseWriter, r *http.Request) {
	h.fieldList(w, r, "bydomain", "domain", document.FieldDomain)
}

// ByIP searches IP addresses. The result is not paginated.
//
// @Summary Search by IP address
// @Tags query
// @Produce json
// @Param ip query string true "Text contained in the IP address"
// @Success 200 {array} query.Entry
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /byip [get]
func (h *QueryHandler) ByIP(w http.ResponseWriter, r *http.Request) {
	h.fieldList(w, r, "byip", "ip", document.FieldIP)
}

// ByPort searches ports.
//
// @Summary Search by port
// @Tags query
// @Produce json
// @Param port query string true "Text contained in the port"
// @Param from query int false "First entry to return" default(0)
// @Param to query int false "Entry after the last one to return"
// @Success 200 {object} query.Page[query.Entry]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /byport [get]
func (h *QueryHandler) ByPort(w http.ResponseWriter, r *http.Request) {
	h.fieldPage(w, r, "byport", "port", document.FieldPort)
}

// ByHTML searches response bodies.
//
// @Summary Search by response body
// @Tags query
// @Produce json
// @Param html query string true "Text contained in the response body"
// @Param from query int false "First entry to return" default(0)
// @Param to query int false "Entry after the last one to return"
// @Success 200 {object} query.Page[query.Entry]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /byhtml [get]
func (h *QueryHandler) ByHTML(w http.ResponseWriter, r *http.Request) {
	h.fieldPage(w, r, "byhtml", "html", document.FieldResponseText)
}

// ByHeaderValue searches response header values. A document is listed once
// per matching header.
//
// @Summary Search by response header value
// @Tags query
// @Produce json
// @Param hresponse query string true "Text contained in a header value"
// @Param from query int false "First entry to return" default(0)
// @Param to query int false "Entry after the last one to return"
// @Success 200 {object} query.Page[query.Entry]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /byhresponse [get]
func (h *QueryHandler) ByHeaderValue(w http.ResponseWriter, r *http.Request) {
	h.headerPage(w, r, "byhresponse", "hresponse", query.HeaderValues)
}

// ByHeaderKey searches response header names. A document is listed once per
// matching header.
//
// @Summary Search by response header name
// @Tags query
// @Produce json
// @Param hkeyresponse query string true "Text contained in a header name"
// @Param from query int false "First entry to return" default(0)
// @Param to query int false "Entry after the last one to return"
// @Success 200 {object} query.Page[query.Entry]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /byhkeyresponse [get]
func (h *QueryHandler) ByHeaderKey(w http.ResponseWriter, r *http.Request) {
	h.headerPage(w, r, "byhkeyresponse", "hkeyresponse", query.HeaderKeys)
}

func (h *QueryHandler) fieldPage(w http.ResponseWriter, r *http.Request, endpoint, param string, field document.Field) {
	pattern, bounds, err := pageParams(r, param)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	matches, err := h.engine.ByField(r.Context(), field, pattern)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordQueryResults(endpoint, len(matches))
	writeIndentedJSON(w, http.StatusOK, query.Paginate(matches, bounds))
}

func (h *QueryHandler) fieldList(w http.ResponseWriter, r *http.Request, endpoint, param string, field document.Field) {
	pattern, err := requiredParam(r, param)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	matches, err := h.engine.ByField(r.Context(), field, pattern)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordQueryResults(endpoint, len(matches))
	writeJSON(w, http.StatusOK, matches)
}

func (h *QueryHandler) headerPage(w http.ResponseWriter, r *http.Request, endpoint, param string, mode query.HeaderMode) {
	text, bounds, err := pageParams(r, param)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	matches, err := h.engine.ByHeader(r.Context(), mode, text)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordQueryResults(endpoint, len(matches))
	writeIndentedJSON(w, http.StatusOK, query.Paginate(matches, bounds))
}

// pageParams reads the search parameter and the from/to window.
func pageParams(r *http.Request, param string) (string, query.Bounds, error) {
	value, err := requiredParam(r, param)
	if err != nil {
		return "", query.Bounds{}, err
	}

	q := r.URL.Query()
	bounds, err := query.ParseBounds(q.Get("from"), q.Get("to"))
	if err != nil {
		return "", query.Bounds{}, err
	}
	return value, bounds, nil
}
