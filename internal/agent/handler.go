package agent

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/logger"
)

const maxMessageBytes = 4 << 10

// Receiver consumes messages sent by the agent.
type Receiver interface {
	HandleAgentMessage(msg Message, now time.Time) error
}

// Handler accepts agent messages posted to the engine's loopback endpoint.
// Requests must carry the shared secret in the X-Pausa-Secret header.
type Handler struct {
	receiver Receiver
	secret   string
	now      func() time.Time
}

func NewHandler(r Receiver, secret string, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{receiver: r, secret: secret, now: now}
}

type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, response{Error: "method not allowed"})
		return
	}

	got := r.Header.Get(constants.SecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, response{Error: "invalid secret"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Error: "failed to read body"})
		return
	}
	msg, err := Decode(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
		return
	}

	if err := h.receiver.HandleAgentMessage(msg, h.now()); err != nil {
		logger.Debug("Rejected agent message", "type", msg.Type, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, response{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response{OK: true})
}

// Mux routes the agent endpoint.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(constants.AgentEndpointPath, h)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
