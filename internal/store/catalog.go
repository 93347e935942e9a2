// Package store はストアフロントのカタログ（ストア名→メニュー表）と
// 読み取り専用JSONエンドポイントを提供します。
package store

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// defaultMenu はメニュー定義を持たないストアに返す既定のメニューです。
var defaultMenu = []string{"Coffee", "Sandwich", "Salad"}

// Catalog はストア名からメニューを引く読み取り専用インターフェースです。
type Catalog interface {
	Menu(ctx context.Context, storeName string) ([]string, error)
}

// MemoryCatalog は固定テーブルによるカタログです。
// テーブルに無いストア名には既定メニューを返します。
type MemoryCatalog struct {
	menus map[string][]string
}

// NewMemoryCatalog は組み込みカタログを作成します。
func NewMemoryCatalog(menus map[string][]string) *MemoryCatalog {
	if menus == nil {
		menus = map[string][]string{}
	}
	return &MemoryCatalog{menus: menus}
}

// Menu はストアのメニューを返します。失敗しません。
func (c *MemoryCatalog) Menu(_ context.Context, storeName string) ([]string, error) {
	if menu, ok := c.menus[storeName]; ok {
		return menu, nil
	}
	return defaultMenu, nil
}

// RedisCatalog はメニューをRedisのリスト store:menu:<name> から引くカタログです。
// キーが無い場合は既定メニューにフォールバックします。
type RedisCatalog struct {
	client *redis.Client
}

// NewRedisCatalog は接続URLからRedisカタログを作成します。
func NewRedisCatalog(redisURL string) (*RedisCatalog, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCatalog{client: redis.NewClient(opt)}, nil
}

// Menu はストアのメニューをRedisから取得します。
func (c *RedisCatalog) Menu(ctx context.Context, storeName string) ([]string, error) {
	menu, err := c.client.LRange(ctx, "store:menu:"+storeName, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(menu) == 0 {
		return defaultMenu, nil
	}
	return menu, nil
}
