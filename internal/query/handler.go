package query

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the query API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/customer", s.HandleCustomerSessions)
	r.GET("/metrics", s.HandleCurrentMetrics)
}

// HandleCustomerSessions handles GET /customer?customer_id=...
func (s *Service) HandleCustomerSessions(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id parameter required"})
		return
	}

	records, err := s.SessionsForCustomer(c.Request.Context(), customerID)
	if err != nil {
		slog.Error("Failed to query customer sessions", "customer_id", customerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id":    customerID,
		"sessions":       records,
		"total_sessions": len(records),
	})
}

// HandleCurrentMetrics handles GET /metrics: the fleet-wide snapshot,
// flattened, with the generation time exposed as "timestamp".
func (s *Service) HandleCurrentMetrics(c *gin.Context) {
	snap, err := s.CurrentMetrics(c.Request.Context())
	if err != nil {
		slog.Error("Failed to compute current metrics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Derived decimals leave the process as JSON numbers, matching the
	// published snapshot shape.
	c.JSON(http.StatusOK, gin.H{
		"timestamp":       snap.GeneratedAt,
		"total_sessions":  snap.TotalSessions,
		"conversions":     snap.Conversions,
		"conversion_rate": snap.ConversionRate.InexactFloat64(),
		"total_revenue":   snap.TotalRevenue.InexactFloat64(),
		"avg_cart_value":  snap.AvgCartValue.InexactFloat64(),
	})
}
