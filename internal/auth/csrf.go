package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// NewCSRFToken はログインごとに新しいCSRFトークンを生成します。
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CheckCSRF はダブルサブミット検証を行います。
// クッキー値とヘッダー値の両方が存在し、バイト単位で一致する場合のみ true です。
// どちらかが欠けている場合は単なる不一致であり、エラーではありません。
func CheckCSRF(cookieValue, headerValue string) bool {
	if cookieValue == "" || headerValue == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieValue), []byte(headerValue)) == 1
}
