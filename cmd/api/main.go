// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"crypto/rand"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront/internal/auth"
	"github.com/yourusername/storefront/internal/config"
	"github.com/yourusername/storefront/internal/store"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"X-CSRF-Token", // CSRF保護用ヘッダー
	}
	router.Use(cors.New(corsConfig))

	// 認証コンポーネントの組み立て
	creds, err := seedCredentials(cfg)
	if err != nil {
		log.Fatalf("Failed to seed credentials: %v", err)
	}

	secret, err := signingSecret(cfg)
	if err != nil {
		log.Fatalf("Failed to prepare signing secret: %v", err)
	}

	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	tokens := auth.NewTokenIssuer(secret, cfg.JWTIssuer, ttl)
	authManager := auth.NewManager(creds, tokens, cfg.GinMode == gin.ReleaseMode)

	// ストアカタログの選択（Redis設定があればRedis、なければ組み込みテーブル）
	catalog, err := setupCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to set up store catalog: %v", err)
	}
	storeHandler := store.NewHandler(catalog)

	// ルーティングの設定
	setupRoutes(router, cfg, authManager, storeHandler)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedCredentials は設定からデモユーザーの資格情報テーブルを構築します。
// テーブルは起動後に変更されません。
func seedCredentials(cfg *config.Config) (*auth.CredentialStore, error) {
	hash := cfg.AppPasswordHash
	if hash == "" {
		// 開発モードでは平文パスワードを起動時にハッシュ化する
		var err error
		hash, err = auth.HashPassword(auth.DefaultArgon, cfg.AppPassword)
		if err != nil {
			return nil, err
		}
	}

	creds := auth.NewCredentialStore()
	creds.Add(auth.UserRecord{
		Username:     cfg.AppUsername,
		PasswordHash: hash,
	})
	return creds, nil
}

// signingSecret はトークン署名鍵を返します。
// 開発モードで未設定の場合はプロセス限りのランダム鍵を生成します
// （再起動で全トークンが無効になる）。
func signingSecret(cfg *config.Config) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	log.Printf("JWT_SECRET not set; using a random per-process key (tokens will not survive restarts)")
	return buf, nil
}

func setupCatalog(cfg *config.Config) (store.Catalog, error) {
	if cfg.StoreRedisURL != "" {
		return store.NewRedisCatalog(cfg.StoreRedisURL)
	}
	return store.NewMemoryCatalog(nil), nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront-api",
		"version": "0.1.0",
	})
}

// setupRoutes は認証・ストア・静的ファイルの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, authManager *auth.Manager, storeHandler *store.Handler) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	// 認証フロー
	// ログイン時はまだクッキーが無いので CSRF 検証は不要
	router.POST("/login", authManager.Login)
	// ログアウトは無条件（セッションが無くても成功する）
	router.POST("/logout", authManager.Logout)
	// 状態変更系はCSRF検証を先に（暗号計算なし）、トークン検証を後に行う
	router.POST("/protected",
		authManager.VerifyCSRF(),
		authManager.RequireAuth(),
		authManager.Protected,
	)
	// セッション確認は読み取り専用のプローブなのでCSRF検証なし
	router.GET("/session", authManager.Session)

	// ストアのJSONエンドポイント
	s := router.Group("/s")
	{
		s.GET("/:store", storeHandler.Show)
		s.GET("/:store/menu", storeHandler.Menu)
	}

	// SPAの入り口。描画はフロント側のVueが行う
	index := filepath.Join(cfg.FrontendDir, "index.html")
	router.StaticFile("/", index)
	router.StaticFile("/dashboard", index)
	router.StaticFile("/app.js", filepath.Join(cfg.FrontendDir, "app.js"))
}
