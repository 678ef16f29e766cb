package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

// Client wraps the Razorpay API for card and wallet orders. Cash orders
// never touch the provider.
type Client struct {
	keyID     string
	keySecret string
	api       *razorpay.Client
}

// New creates a payment client from provider credentials.
func New(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		api:       razorpay.NewClient(keyID, keySecret),
	}
}

// CreateIntent opens a payment order with the provider and returns its id.
// The amount is converted to the smallest currency unit.
func (c *Client) CreateIntent(ctx context.Context, amount float64, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "USD",
		"receipt":  receipt,
	}
	res, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("create provider order: %w", err)
	}
	id, ok := res["id"].(string)
	if !ok {
		return "", errors.New("provider response missing order id")
	}
	return id, nil
}

// VerifySignature checks the HMAC-SHA256 signature the provider's checkout
// returns after a successful payment.
func (c *Client) VerifySignature(providerOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
