package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
	"github.com/sightline-lab/project-sightline/internal/core/session"
	"github.com/sightline-lab/project-sightline/internal/core/storage"
)

// IngestHandler handles HTTP POST requests for session record ingestion.
// The body is one raw JSON object; it is normalized by the session
// validator before touching the store, so no malformed record ever reaches
// aggregation.
func (s *Service) IngestHandler(c *gin.Context) {
	raw, ok := s.readRawRecord(c)
	if !ok {
		return
	}

	rec, err := session.Validate(raw)
	if err != nil {
		var verr *cerrors.ValidationError
		if errors.As(err, &verr) {
			slog.Warn("Record validation failed", "field", verr.Field, "kind", verr.Kind)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.SaveRecord(c.Request.Context(), rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate session record rejected",
				"customer_id", rec.CustomerID,
				"session_timestamp", rec.SessionTimestamp)
			c.JSON(http.StatusConflict, gin.H{"error": "session record already exists"})
			return
		}

		slog.Error("Failed to persist session record", "error", err, "customer_id", rec.CustomerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session record"})
		return
	}

	slog.Info("Ingested session record",
		"customer_id", rec.CustomerID,
		"session_timestamp", rec.SessionTimestamp,
		"converted", rec.Converted)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// readRawRecord reads the request body under the size cap and decodes it
// into an untyped map for the validator. Writes the error response itself
// and returns false on failure.
func (s *Service) readRawRecord(c *gin.Context) (map[string]interface{}, bool) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read request body"})
		return nil, false
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body exceeds maximum allowed size"})
		return nil, false
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}

	return raw, true
}
