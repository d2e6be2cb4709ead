// Package middleware exposes a transport over HTTP with the routes the HTTP
// transport speaks:
//
//	GET    /select?query=<json SelectQuery>
//	POST   /insert   <json InsertCommand>
//	PATCH  /update   <json UpdateCommand>
//	DELETE /delete   <json DeleteCommand>
//	POST   /call     <json CallCommand>
//
// Every other method and path is answered with 404.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/errilaz/grimo/internal/client"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/query"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

const maxBody = 8 << 20

// Handler serves intents through a transport.
type Handler struct {
	transport client.Transport
	router    *mux.Router
	log       *slog.Logger
}

// New mounts the routes under prefix ("" for the root).
func New(transport client.Transport, prefix string) *Handler {
	h := &Handler{
		transport: transport,
		router:    mux.NewRouter(),
		log:       logger.Get(),
	}

	r := h.router
	if prefix = strings.TrimRight(prefix, "/"); prefix != "" {
		r = h.router.PathPrefix(prefix).Subrouter()
	}
	r.HandleFunc("/select", h.handleSelect).Methods(http.MethodGet)
	r.HandleFunc("/insert", h.handleInsert).Methods(http.MethodPost)
	r.HandleFunc("/update", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/delete", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/call", h.handleCall).Methods(http.MethodPost)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	h.router.NotFoundHandler = notFound
	h.router.MethodNotAllowedHandler = notFound
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	h.router.Use(h.requestID)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		h.log.Debug("Handled request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("query")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter")
		return
	}
	var q query.SelectQuery
	if err := decode(strings.NewReader(raw), &q); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid select query: %v", err))
		return
	}
	if q.Table == "" {
		writeError(w, http.StatusBadRequest, "invalid select query: missing table")
		return
	}
	res, err := h.transport.Select(r.Context(), q)
	h.respond(w, r, res, err)
}

func (h *Handler) handleInsert(w http.ResponseWriter, r *http.Request) {
	var c query.InsertCommand
	if !h.body(w, r, &c) {
		return
	}
	if c.Table == "" {
		writeError(w, http.StatusBadRequest, "invalid insert command: missing table")
		return
	}
	res, err := h.transport.Insert(r.Context(), c)
	h.respond(w, r, res, err)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var c query.UpdateCommand
	if !h.body(w, r, &c) {
		return
	}
	if c.Table == "" || len(c.Set) == 0 {
		writeError(w, http.StatusBadRequest, "invalid update command: missing table or set")
		return
	}
	res, err := h.transport.Update(r.Context(), c)
	h.respond(w, r, res, err)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var c query.DeleteCommand
	if !h.body(w, r, &c) {
		return
	}
	if c.Table == "" {
		writeError(w, http.StatusBadRequest, "invalid delete command: missing table")
		return
	}
	res, err := h.transport.Delete(r.Context(), c)
	h.respond(w, r, res, err)
}

func (h *Handler) handleCall(w http.ResponseWriter, r *http.Request) {
	var c query.CallCommand
	if !h.body(w, r, &c) {
		return
	}
	if c.Procedure == "" {
		writeError(w, http.StatusBadRequest, "invalid call command: missing procedure")
		return
	}
	rows, err := h.transport.Call(r.Context(), c)
	h.respond(w, r, query.Result{RowsAffected: int64(len(rows)), Rows: rows}, err)
}

func (h *Handler) body(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return false
	}
	if err := decode(bytes.NewReader(data), v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, res query.Result, err error) {
	if err != nil {
		h.log.Error("Transport failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Rows == nil {
		res.Rows = []query.Row{}
	}
	writeJSON(w, http.StatusOK, res)
}

// decode keeps numbers as json.Number so integers beyond 2^53 stay exact.
func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
