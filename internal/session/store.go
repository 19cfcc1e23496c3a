package session

import "context"

// セッションカートの1行。単価は追加時点のスナップショット。
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
}

// product_id → 行
type Cart map[int64]CartLine

// カート内の総数量
func (c Cart) ItemCount() int64 {
	var n int64
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// カートと適用中クーポンコードをセッションとして預かる約束。
// 実体はRedis。テストではマップ実装を使う。
type Store interface {
	GetCart(ctx context.Context, userID int64) (Cart, error)
	SaveCart(ctx context.Context, userID int64, cart Cart) error
	ClearCart(ctx context.Context, userID int64) error

	GetCouponCode(ctx context.Context, userID int64) (string, error)
	SaveCouponCode(ctx context.Context, userID int64, code string) error
	ClearCouponCode(ctx context.Context, userID int64) error
}
