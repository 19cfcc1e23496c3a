package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// セッションの生存期間。放置されたカートはこの期間で消える。
const defaultTTL = 7 * 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore は接続確認込みでRedisセッションストアを作る。
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping failed")
	}

	return &RedisStore{rdb: rdb, ttl: defaultTTL}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

func couponKey(userID int64) string {
	return fmt.Sprintf("cart:%d:coupon", userID)
}

func (s *RedisStore) GetCart(ctx context.Context, userID int64) (Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return Cart{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// 壊れたセッションは空として扱う
		return Cart{}, nil
	}
	return cart, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, userID int64, cart Cart) error {
	if len(cart) == 0 {
		return s.ClearCart(ctx, userID)
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	if err := s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "save cart")
	}
	return nil
}

func (s *RedisStore) ClearCart(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func (s *RedisStore) GetCouponCode(ctx context.Context, userID int64) (string, error) {
	code, err := s.rdb.Get(ctx, couponKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "get coupon code")
	}
	return code, nil
}

func (s *RedisStore) SaveCouponCode(ctx context.Context, userID int64, code string) error {
	if err := s.rdb.Set(ctx, couponKey(userID), code, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "save coupon code")
	}
	return nil
}

func (s *RedisStore) ClearCouponCode(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, couponKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "clear coupon code")
	}
	return nil
}
