package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/model"
)

func TestMapNotification(t *testing.T) {
	cases := []struct {
		transactionStatus string
		fraudStatus       string
		wantPayment       model.PaymentStatus
		wantOrder         model.OrderStatus
		wantOK            bool
	}{
		{"capture", "accept", model.PaymentStatusCompleted, model.OrderStatusProcessing, true},
		{"capture", "", model.PaymentStatusCompleted, model.OrderStatusProcessing, true},
		{"capture", "challenge", model.PaymentStatusFailed, model.OrderStatusCancelled, true},
		{"settlement", "", model.PaymentStatusCompleted, model.OrderStatusProcessing, true},
		{"pending", "", model.PaymentStatusPending, model.OrderStatusPending, true},
		{"deny", "", model.PaymentStatusFailed, model.OrderStatusCancelled, true},
		{"expire", "", model.PaymentStatusFailed, model.OrderStatusCancelled, true},
		{"cancel", "", model.PaymentStatusFailed, model.OrderStatusCancelled, true},
		{"refund", "", model.PaymentStatusRefunded, model.OrderStatusRefunded, true},
		{"authorize", "", "", "", false},
	}

	for _, tc := range cases {
		p, o, ok := MapNotification(tc.transactionStatus, tc.fraudStatus)
		assert.Equal(t, tc.wantOK, ok, tc.transactionStatus)
		assert.Equal(t, tc.wantPayment, p, tc.transactionStatus)
		assert.Equal(t, tc.wantOrder, o, tc.transactionStatus)
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		// Basic base64("server-key:")
		assert.Equal(t, "Basic c2VydmVyLWtleTo=", r.Header.Get("Authorization"))

		var req TransactionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORD-X", req.TransactionDetails.OrderID)
		assert.Equal(t, int64(19000), req.TransactionDetails.GrossAmount)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-token",
			"redirect_url": "https://pay.example/redirect",
		})
	}))
	defer srv.Close()

	c := NewSnapClient("server-key", false).WithBaseURL(srv.URL)
	sess, err := c.CreateTransaction(context.Background(), TransactionRequest{
		TransactionDetails: TransactionDetails{OrderID: "ORD-X", GrossAmount: 19000},
	})
	assert.NoError(t, err)
	assert.Equal(t, "snap-token", sess.Token)
	assert.Equal(t, "https://pay.example/redirect", sess.RedirectURL)
}

func TestCreateTransaction_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"error_messages": {"Access denied due to unauthorized transaction"},
		})
	}))
	defer srv.Close()

	c := NewSnapClient("bad-key", false).WithBaseURL(srv.URL)
	_, err := c.CreateTransaction(context.Background(), TransactionRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized transaction")
}

func TestCreateTransaction_NoServerKey(t *testing.T) {
	c := NewSnapClient("", false)
	_, err := c.CreateTransaction(context.Background(), TransactionRequest{})
	assert.Error(t, err)
}
