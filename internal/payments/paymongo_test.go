package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  "sk_test_123",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateLink(t *testing.T) {
	var captured struct {
		auth string
		body linkRequest
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/links", r.URL.Path)
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":{"id":"link_99","attributes":{"url":"https://pm.link/abc","checkout_url":"https://pm.link/abc/checkout"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	link, err := client.CreateLink(context.Background(), CreateLinkInput{
		Amount:      300,
		Description: "Blood Chemistry - Total Cholesterol",
		Name:        "Eleanor Agapito",
		Email:       "eleanoragapito@gmail.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "link_99", link.ID)
	assert.Equal(t, "https://pm.link/abc", link.URL)
	assert.Equal(t, "https://pm.link/abc/checkout", link.CheckoutURL)

	// Secret key goes out as HTTP Basic with an empty password.
	assert.Equal(t, "Basic "+basicAuth("sk_test_123"), captured.auth)

	// Major units are converted to centavos at the gateway boundary.
	assert.Equal(t, int64(30000), captured.body.Data.Attributes.Amount)
	assert.Equal(t, "PHP", captured.body.Data.Attributes.Currency)
	assert.Equal(t, "Eleanor Agapito", captured.body.Data.Attributes.Billing.Name)
}

func TestCreateLinkGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"detail":"amount must be at least 10000"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateLink(context.Background(), CreateLinkInput{Amount: 1, Description: "x"})
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "amount must be at least 10000", gwErr.Detail)
}

func TestCreateLinkGatewayErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateLink(context.Background(), CreateLinkInput{Amount: 300, Description: "x"})

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Unknown error", gwErr.Detail)
}

func TestParseEvent(t *testing.T) {
	raw := []byte(`{"data":{"attributes":{"type":"link.payment.paid","data":{"id":"link_99","amount":30000}}}}`)

	event, err := ParseEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, EventLinkPaymentPaid, event.Type)
	assert.Equal(t, "link_99", event.ResourceID)
}

func TestParseEventRejectsMalformedPayloads(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data":{"attributes":{}}}`))
	assert.Error(t, err)
}
