package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/order/domain"
)

func newAdapter(endpoint string) *PaymentHTTPAdapter {
	tracer := otel.Tracer("test")
	cfg := bootstrap.GatewayConfig{
		Endpoint:   endpoint,
		MerchantID: "m-1",
		PublicKey:  "pub",
		PrivateKey: "priv",
	}
	return NewPaymentHTTPAdapter(httpclient.NewClient(tracer), cfg, tracer)
}

func TestSale_Captured(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"transaction": map[string]interface{}{
				"id":     "txn_9",
				"amount": 30.0,
			},
		})
	}))
	defer server.Close()

	outcome, err := newAdapter(server.URL).Sale(context.Background(), 30, "fake-valid-nonce")
	require.NoError(t, err)

	assert.Equal(t, "/merchants/m-1/transactions", gotPath)
	assert.Equal(t, 30.0, gotBody["amount"])
	assert.Equal(t, "fake-valid-nonce", gotBody["paymentMethodNonce"])
	assert.Equal(t, true, gotBody["submitForSettlement"])

	assert.True(t, outcome.Success)
	assert.Equal(t, "txn_9", outcome.TransactionID)
	assert.Equal(t, 30.0, outcome.Amount)
}

func TestSale_Declined(t *testing.T) {
	// 网关正常应答但 success=false，必须归一为错误而不是成功结果
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "insufficient funds",
		})
	}))
	defer server.Close()

	outcome, err := newAdapter(server.URL).Sale(context.Background(), 30, "nonce")
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.False(t, outcome.Success)
}

func TestSale_TransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).Sale(context.Background(), 30, "nonce")
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))

	// 连不上网关也是同一类失败
	_, err = newAdapter("http://127.0.0.1:1").Sale(context.Background(), 30, "nonce")
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))
}

func TestGenerateClientToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchants/m-1/client-token", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"clientToken": "sandbox-token",
		})
	}))
	defer server.Close()

	token, err := newAdapter(server.URL).GenerateClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sandbox-token", token)
}

func TestGenerateClientToken_Refused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "invalid credentials",
		})
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).GenerateClientToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))
}
