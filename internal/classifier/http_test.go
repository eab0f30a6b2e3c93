package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandeyaakriti/finPal/internal/common"
	"github.com/pandeyaakriti/finPal/internal/model"
)

func newHTTPTestGateway(t *testing.T, handler http.HandlerFunc, strict bool) Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(Config{
		Provider:     "http",
		URL:          server.URL,
		StrictLabels: strict,
	}, nil)
	require.NoError(t, err)
	return gateway
}

func TestHTTPGateway_Classify(t *testing.T) {
	gateway := newHTTPTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Uber trip downtown", req["text"])

		_ = json.NewEncoder(w).Encode(response{Category: "transportation", Confidence: 0.91})
	}, false)

	got, err := gateway.Classify(context.Background(), "Uber trip downtown")
	require.NoError(t, err)
	assert.Equal(t, Prediction{CategoryID: 12, Confidence: 0.91}, got)
}

func TestHTTPGateway_Classify_UnknownCategoryFallback(t *testing.T) {
	gateway := newHTTPTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(response{Category: "gambling", Confidence: 0.66})
	}, false)

	got, err := gateway.Classify(context.Background(), "casino night")
	require.NoError(t, err)
	assert.Equal(t, model.MiscellaneousID, got.CategoryID)
}

func TestHTTPGateway_Classify_ServerError(t *testing.T) {
	gateway := newHTTPTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}, false)

	_, err := gateway.Classify(context.Background(), "anything")
	require.ErrorIs(t, err, common.ErrClassificationFailed)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPGateway_Classify_MalformedResponse(t *testing.T) {
	gateway := newHTTPTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, false)

	_, err := gateway.Classify(context.Background(), "anything")
	require.ErrorIs(t, err, common.ErrClassificationFailed)
}

func TestHTTPGateway_Classify_EmptyText(t *testing.T) {
	gateway := newHTTPTestGateway(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("server must not be called for empty text")
	}, false)

	_, err := gateway.Classify(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrClassificationFailed)
}
