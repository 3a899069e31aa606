package handlers

import (
	"net/http"

	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/logbuf"
)

// DebugHandler exposes the in-process debug log ring buffer.
type DebugHandler struct {
	log *logbuf.Buffer
}

func NewDebugHandler(log *logbuf.Buffer) *DebugHandler {
	return &DebugHandler{log: log}
}

func (h *DebugHandler) Log(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.log.Lines())
}
