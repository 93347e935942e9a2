package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName は署名付きセッショントークンを運ぶクッキーです。
	SessionCookieName = "access_token"
	// CSRFCookieName はスクリプトから読めるCSRFトークン用クッキーです。
	CSRFCookieName = "csrf_token"
	// legacyCookieName は旧実装が使っていたクッキー名で、ログアウト時に掃除します。
	legacyCookieName = "session"

	csrfHeader = "X-CSRF-Token"
)

// ContextUserKey は、ハンドラー間で認証済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Manager は認証処理をまとめた構造体です。
// 資格情報テーブルとトークン発行器は起動時に注入され、以降読み取り専用です。
type Manager struct {
	creds         *CredentialStore
	tokens        *TokenIssuer
	secureCookies bool // 本番(release)ではHTTPS限定クッキーにする
}

// NewManager は認証マネージャーを作成します。
func NewManager(creds *CredentialStore, tokens *TokenIssuer, secureCookies bool) *Manager {
	return &Manager{
		creds:         creds,
		tokens:        tokens,
		secureCookies: secureCookies,
	}
}

// Login は POST /login のハンドラーです。
// フォームフィールド username / password を受け取ります。
func (m *Manager) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// ユーザー不在とパスワード不一致は意図的に区別しない（ユーザー列挙対策）
	rec, ok := m.creds.Lookup(username)
	authenticated := false
	if ok {
		match, err := VerifyPassword(password, rec.PasswordHash)
		authenticated = err == nil && match
	}
	if !authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "Invalid credentials",
		})
		return
	}

	token, _, err := m.tokens.Issue(rec.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "TOKEN_ISSUE_FAILED",
			"message": "Could not issue session token",
		})
		return
	}

	csrfToken, err := NewCSRFToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "TOKEN_GENERATION_FAILED",
			"message": "Could not generate CSRF token",
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	// セッショントークンはスクリプトから読めないクッキーで返す。
	// ボディには決して載せない。
	c.SetCookie(SessionCookieName, token, int(m.tokens.TTL().Seconds()), "/", "", m.secureCookies, true)
	// CSRFトークンはフロントがヘッダーに載せ直せるよう HttpOnly にしない。
	// MaxAge 0 でセッション限りのクッキーになる。
	c.SetCookie(CSRFCookieName, csrfToken, 0, "/", "", m.secureCookies, false)

	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// Logout は POST /logout のハンドラーです。
// セッションの有無にかかわらずクッキーを消して成功を返します（冪等）。
func (m *Manager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", m.secureCookies, true)
	c.SetCookie(CSRFCookieName, "", -1, "/", "", m.secureCookies, false)
	c.SetCookie(legacyCookieName, "", -1, "/", "", m.secureCookies, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// VerifyCSRF はダブルサブミット検証を行うミドルウェアです。
// 両クッキーの存在とヘッダー一致を、トークン検証より先に（暗号計算なしで）
// 確認します。
func (m *Manager) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			abortCSRF(c)
			return
		}

		csrfCookie, err := c.Cookie(CSRFCookieName)
		if err != nil || !CheckCSRF(csrfCookie, c.GetHeader(csrfHeader)) {
			abortCSRF(c)
			return
		}

		c.Next()
	}
}

// RequireAuth はセッショントークンを検証するミドルウェアです。
// 失敗理由（不正な形式・署名不一致・期限切れ）は呼び出し側に区別して
// 見せません。
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		subject, err := m.tokens.Verify(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, subject)
		c.Next()
	}
}

// Protected は POST /protected のハンドラーです。
// VerifyCSRF と RequireAuth を通過した後に呼ばれます。
func (m *Manager) Protected(c *gin.Context) {
	user := c.GetString(ContextUserKey)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Hello %s, CSRF check passed!", user),
	})
}

// Session は GET /session のハンドラーです。
// 読み取り専用のプローブなのでCSRF検証は行わず、常に200を返します。
func (m *Manager) Session(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	subject, err := m.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      subject,
	})
}

func abortCSRF(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":    "CSRF_INVALID",
		"message": "CSRF validation failed",
	})
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "INVALID_TOKEN",
		"message": "Invalid token",
	})
}
