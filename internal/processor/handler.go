package processor

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes registers the trigger route on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/trigger-processing", s.HandleTriggerProcessing)
}

// HandleTriggerProcessing handles POST /trigger-processing: it enqueues an
// aggregate trigger and answers 202 immediately. The request id only
// correlates logs; trigger execution is asynchronous.
func (s *Service) HandleTriggerProcessing(c *gin.Context) {
	requestID := uuid.NewString()

	if err := s.Dispatch(AggregateInput()); err != nil {
		slog.Error("Failed to dispatch processing trigger", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Processing triggered", "request_id", requestID)
	c.JSON(http.StatusAccepted, gin.H{
		"message":   "Processing triggered",
		"requestId": requestID,
	})
}
