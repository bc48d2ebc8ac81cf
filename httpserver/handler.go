package httpserver

import (
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/miradot/intersight-example/cryptoutils"
	"github.com/miradot/intersight-example/interfaces"
)

const (
	// APIPrefix is where the mock API is mounted, matching the public API root.
	APIPrefix = "/api/v1"

	// RequestIDHeader carries the ID the handler assigned to a request.
	RequestIDHeader = "X-Request-Id"

	// maxBodySize is the maximum allowed request body size (1MB).
	maxBodySize = 1024 * 1024
)

// Handler serves read-only collections to requests signed by a registered key.
type Handler struct {
	mu          sync.RWMutex
	keys        map[string]crypto.PublicKey
	collections map[string][]interfaces.Asset

	log *slog.Logger
	now func() time.Time
}

// NewHandler creates a handler with no registered keys or collections.
func NewHandler(log *slog.Logger) *Handler {
	return &Handler{
		keys:        make(map[string]crypto.PublicKey),
		collections: make(map[string][]interfaces.Asset),
		log:         log,
		now:         time.Now,
	}
}

// RegisterKey allows requests signed by the private half of pub. It returns
// the key ID clients will present.
func (h *Handler) RegisterKey(pub cryptoutils.AppPubkey) (string, error) {
	keyID, err := cryptoutils.KeyIDFromPublicKey(pub)
	if err != nil {
		return "", err
	}
	parsed, err := pub.GetPublicKey()
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[keyID] = parsed
	return keyID, nil
}

// RegisterCollection serves assets at resourcePath (relative to APIPrefix).
func (h *Handler) RegisterCollection(resourcePath string, assets []interfaces.Asset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.collections[normalizePath(resourcePath)] = assets
}

// HandleCollection answers GET {APIPrefix}/{resourcePath}.
//
// Responses:
//   - 401 if the request signature is missing or does not verify
//   - 404 if no collection is registered for the path
//   - 200 with {"ObjectType": "mo.List", "Count": n, "Results": [...]}
func (h *Handler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set(RequestIDHeader, requestID)
	log := h.log.With("requestId", requestID)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	keyID, err := cryptoutils.VerifyRequest(r, body, h.lookupKey, h.now())
	if err != nil {
		log.Warn("rejected request", "err", err)
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized", "request signature could not be verified")
		return
	}

	resourcePath := normalizePath(chi.URLParam(r, "*"))

	h.mu.RLock()
	assets, ok := h.collections[resourcePath]
	h.mu.RUnlock()
	if !ok {
		writeAPIError(w, http.StatusNotFound, "NotFound", fmt.Sprintf("no collection at %s", resourcePath))
		return
	}

	if assets == nil {
		assets = []interfaces.Asset{}
	}

	log.Info("served collection", "keyId", keyID, "resourcePath", resourcePath, "count", len(assets))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ObjectType": "mo.List",
		"Count":      len(assets),
		"Results":    assets,
	})
}

func (h *Handler) lookupKey(keyID string) (crypto.PublicKey, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	pub, ok := h.keys[keyID]
	if !ok {
		return nil, errors.New("key not registered")
	}
	return pub, nil
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

func normalizePath(p string) string {
	return "/" + strings.Trim(p, "/")
}
