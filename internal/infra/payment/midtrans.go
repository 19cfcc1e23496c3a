package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"storefront/internal/domain/model"

	"github.com/pkg/errors"
)

const (
	sandboxBaseURL    = "https://app.sandbox.midtrans.com/snap/v1"
	productionBaseURL = "https://app.midtrans.com/snap/v1"
)

// Snap APIのトランザクション作成リクエスト
type TransactionRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	EnabledPayments    []string           `json:"enabled_payments,omitempty"`
	Callbacks          *Callbacks         `json:"callbacks,omitempty"`
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Name     string `json:"name"`
}

type AddressDetails struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

type CustomerDetails struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	BillingAddress  *AddressDetails `json:"billing_address,omitempty"`
	ShippingAddress *AddressDetails `json:"shipping_address,omitempty"`
}

type Callbacks struct {
	Finish string `json:"finish,omitempty"`
}

// 決済セッション（Snap token と遷移先URL）
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// Snap HTTPクライアント
type SnapClient struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
}

func NewSnapClient(serverKey string, isProduction bool) *SnapClient {
	baseURL := sandboxBaseURL
	if isProduction {
		baseURL = productionBaseURL
	}

	return &SnapClient{
		serverKey: serverKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// テスト用にエンドポイントを差し替える
func (c *SnapClient) WithBaseURL(baseURL string) *SnapClient {
	c.baseURL = baseURL
	return c
}

// トランザクションを作成してtoken/redirect_urlを得る
func (c *SnapClient) CreateTransaction(ctx context.Context, req TransactionRequest) (Session, error) {
	if c.serverKey == "" {
		return Session{}, errors.New("midtrans server key not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Session{}, errors.Wrap(err, "marshal transaction request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewBuffer(body))
	if err != nil {
		return Session{}, errors.Wrap(err, "build transaction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	// server key をBasic認証のユーザー名として送る（パスワードは空）
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Session{}, errors.Wrap(err, "failed to reach payment gateway")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, errors.Wrap(err, "read gateway response")
	}

	var snap snapResponse
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Session{}, errors.Wrapf(err, "parse gateway response (%d)", resp.StatusCode)
	}

	if len(snap.ErrorMessages) > 0 {
		return Session{}, errors.Errorf("gateway error (%d): %s", resp.StatusCode, snap.ErrorMessages[0])
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, errors.Errorf("gateway error (%d): %s", resp.StatusCode, string(raw))
	}
	if snap.Token == "" {
		return Session{}, errors.New("gateway returned empty token")
	}

	return Session{Token: snap.Token, RedirectURL: snap.RedirectURL}, nil
}

// webhookで届く通知ペイロード
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

// ゲートウェイのステータス語彙を注文の内部語彙に写す。
// 未知のステータスは ok=false。
func MapNotification(transactionStatus string, fraudStatus string) (model.PaymentStatus, model.OrderStatus, bool) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return model.PaymentStatusCompleted, model.OrderStatusProcessing, true
		}
		return model.PaymentStatusFailed, model.OrderStatusCancelled, true
	case "settlement":
		return model.PaymentStatusCompleted, model.OrderStatusProcessing, true
	case "pending":
		return model.PaymentStatusPending, model.OrderStatusPending, true
	case "deny", "expire", "cancel":
		return model.PaymentStatusFailed, model.OrderStatusCancelled, true
	case "refund":
		return model.PaymentStatusRefunded, model.OrderStatusRefunded, true
	default:
		return "", "", false
	}
}

// デフォルトで有効にする決済手段
func DefaultEnabledPayments() []string {
	return []string{
		"credit_card", "bca_va", "bni_va", "bri_va", "permata_va",
		"other_va", "gopay", "shopeepay", "qris",
		"echannel", "indomaret", "alfamart", "akulaku", "kredivo",
	}
}
