package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clinic-appointment-server/internal/config"
)

// EventLinkPaymentPaid is the webhook event type PayMongo emits when a
// hosted payment link has been paid.
const EventLinkPaymentPaid = "link.payment.paid"

// GatewayError is returned when the payment gateway rejects a request.
type GatewayError struct {
	StatusCode int
	Detail     string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error (status %d): %s", e.StatusCode, e.Detail)
}

// Link is a hosted payment link created by the gateway.
type Link struct {
	ID          string
	URL         string
	CheckoutURL string
}

// CreateLinkInput holds the details for a new payment link. Amount is in
// major currency units (pesos); conversion to the gateway's minor units
// happens inside the client.
type CreateLinkInput struct {
	Amount      float64
	Description string
	Name        string
	Email       string
}

// LinkCreator creates hosted payment links. Satisfied by *Client; handlers
// depend on the interface so tests can substitute a fake gateway.
type LinkCreator interface {
	CreateLink(ctx context.Context, in CreateLinkInput) (*Link, error)
}

// Client calls the PayMongo REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a PayMongo client from the application config. All
// requests carry a bounded timeout; the gateway offers no streaming
// endpoints.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:   cfg.PayMongo.BaseURL,
		secretKey: cfg.PayMongo.SecretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type linkRequest struct {
	Data struct {
		Attributes struct {
			Amount      int64  `json:"amount"`
			Description string `json:"description"`
			Remarks     string `json:"remarks"`
			Currency    string `json:"currency"`
			Billing     struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"billing"`
		} `json:"attributes"`
	} `json:"data"`
}

type linkResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			URL         string `json:"url"`
			CheckoutURL string `json:"checkout_url"`
		} `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreateLink creates a hosted payment link. Non-2xx gateway responses are
// returned as *GatewayError carrying the gateway's error detail.
func (c *Client) CreateLink(ctx context.Context, in CreateLinkInput) (*Link, error) {
	var reqBody linkRequest
	// PayMongo expects the amount in the smallest currency unit
	// (centavos for PHP), so PHP 300.00 becomes 30000.
	reqBody.Data.Attributes.Amount = int64(in.Amount * 100)
	reqBody.Data.Attributes.Description = in.Description
	reqBody.Data.Attributes.Remarks = "St. Rupert's Medical Clinic Appointment"
	reqBody.Data.Attributes.Currency = "PHP"
	reqBody.Data.Attributes.Billing.Name = in.Name
	reqBody.Data.Attributes.Billing.Email = in.Email

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/links", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.secretKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded linkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := "Unknown error"
		if len(decoded.Errors) > 0 && decoded.Errors[0].Detail != "" {
			detail = decoded.Errors[0].Detail
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return &Link{
		ID:          decoded.Data.ID,
		URL:         decoded.Data.Attributes.URL,
		CheckoutURL: decoded.Data.Attributes.CheckoutURL,
	}, nil
}

// basicAuth builds the HTTP Basic credential PayMongo expects: the secret
// key as username with an empty password.
func basicAuth(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
