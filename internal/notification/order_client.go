package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OrderServiceClient updates an order's payment status over the order
// service's internal HTTP API.
type OrderServiceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOrderServiceClient(baseURL string, timeout time.Duration) *OrderServiceClient {
	return &OrderServiceClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OrderServiceClient) UpdatePaymentStatus(ctx context.Context, orderID int, paymentStatus string) error {
	body, err := json.Marshal(map[string]string{"paymentStatus": paymentStatus})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/internal/orders/%d/status", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("order service returned %s", resp.Status)
	}
	return nil
}
