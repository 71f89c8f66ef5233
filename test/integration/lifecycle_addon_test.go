//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCoreAPI_E2ELifecycle_AddOn(t *testing.T) {
	h := startHarnessWithoutScheduler(t)
	defer h.close(t)

	require.NoError(t, resetDatabase(t, h.db))

	customerID := "cust-lifecycle"
	base := time.Now().Unix()

	var ingestedCount int

	t.Run("health endpoint", func(t *testing.T) {
		resp, err := h.client.Get(h.baseURL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	})

	t.Run("ingest non-converted session", func(t *testing.T) {
		record := map[string]interface{}{
			"customer_id":       customerID,
			"session_timestamp": base,
			"pages_viewed":      3,
			"actions":           []string{"browse", "view_product"},
			"device_type":       "mobile",
		}
		status, body := postJSON(t, h.client, h.baseURL+"/sessions", record)
		require.Equal(t, http.StatusAccepted, status, string(body))
		ingestedCount++
	})

	t.Run("ingest converted session", func(t *testing.T) {
		record := map[string]interface{}{
			"customer_id":       customerID,
			"session_timestamp": base + 1,
			"pages_viewed":      9,
			"actions":           []string{"browse", "add_to_cart", "complete_purchase"},
			"device_type":       "desktop",
			"converted":         true,
			"cart_value":        200.50,
		}
		status, body := postJSON(t, h.client, h.baseURL+"/sessions", record)
		require.Equal(t, http.StatusAccepted, status, string(body))
		ingestedCount++
	})

	t.Run("customer query returns both sessions in timestamp order", func(t *testing.T) {
		resp, err := h.client.Get(fmt.Sprintf("%s/customer?customer_id=%s", h.baseURL, customerID))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var payload struct {
			TotalSessions int `json:"total_sessions"`
			Sessions      []struct {
				SessionTimestamp int64 `json:"session_timestamp"`
			} `json:"sessions"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, ingestedCount, payload.TotalSessions)
		require.Len(t, payload.Sessions, ingestedCount)
		require.Equal(t, base, payload.Sessions[0].SessionTimestamp)
		require.Equal(t, base+1, payload.Sessions[1].SessionTimestamp)
	})

	t.Run("fleet metrics reflect ingested sessions", func(t *testing.T) {
		payload := queryFleetMetrics(t, h)
		require.Equal(t, int64(ingestedCount), payload.TotalSessions)
		require.Equal(t, int64(1), payload.Conversions)
		require.InDelta(t, 50.0, payload.ConversionRate, 1e-9)
		require.InDelta(t, 200.5, payload.TotalRevenue, 1e-9)
		require.InDelta(t, 200.5, payload.AvgCartValue, 1e-9)
	})

	t.Run("trigger processing publishes a snapshot object", func(t *testing.T) {
		status, body := postJSON(t, h.client, h.baseURL+"/trigger-processing", map[string]interface{}{})
		require.Equal(t, http.StatusAccepted, status, string(body))

		var trigger struct {
			Message   string `json:"message"`
			RequestID string `json:"requestId"`
		}
		require.NoError(t, json.Unmarshal(body, &trigger))
		require.Equal(t, "Processing triggered", trigger.Message)
		require.NotEmpty(t, trigger.RequestID)

		paths := waitForSnapshotObject(t, h.objectRoot, 1, 5*time.Second)

		data, err := os.ReadFile(paths[len(paths)-1])
		require.NoError(t, err)

		var snapshot struct {
			TotalSessions  int64   `json:"total_sessions"`
			Conversions    int64   `json:"conversions"`
			ConversionRate float64 `json:"conversion_rate"`
			TotalRevenue   float64 `json:"total_revenue"`
		}
		require.NoError(t, json.Unmarshal(data, &snapshot))
		require.Equal(t, int64(ingestedCount), snapshot.TotalSessions)
		require.Equal(t, int64(1), snapshot.Conversions)
		require.InDelta(t, 50.0, snapshot.ConversionRate, 1e-9)
		require.InDelta(t, 200.5, snapshot.TotalRevenue, 1e-9)
	})

	t.Run("unknown route returns structured 404", func(t *testing.T) {
		resp, err := h.client.Get(h.baseURL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.JSONEq(t, `{"error":"Endpoint not found"}`, string(body))
	})
}

type fleetMetricsPayload struct {
	Timestamp      time.Time `json:"timestamp"`
	TotalSessions  int64     `json:"total_sessions"`
	Conversions    int64     `json:"conversions"`
	ConversionRate float64   `json:"conversion_rate"`
	TotalRevenue   float64   `json:"total_revenue"`
	AvgCartValue   float64   `json:"avg_cart_value"`
}

func queryFleetMetrics(t *testing.T, h *integrationHarness) fleetMetricsPayload {
	t.Helper()

	resp, err := h.client.Get(h.baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var payload fleetMetricsPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}
