package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// トークン検証の失敗理由。呼び出し側は errors.Is で判別できます。
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSignature = errors.New("bad token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// TokenIssuer は署名付きセッショントークンの発行と検証を行います。
// 署名鍵は起動時に一度だけ読み込まれ、以降変更されません。
// サーバー側にセッションテーブルは持ちません。
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time // テストから差し替えられるようにする
}

// NewTokenIssuer はトークン発行器を作成します。
func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL はトークンの有効期間を返します。クッキーの MaxAge に利用します。
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue は subject を主体とするトークンを発行し、有効期限と共に返します。
func (i *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(i.secret)
	return ss, exp, err
}

// Verify はトークンを検証し、subject を返します。
// 受理されるのは署名が正しく、かつ有効期限が未来のものだけです。
// 失敗時は ErrTokenMalformed / ErrTokenSignature / ErrTokenExpired の
// いずれかを返し、部分的な識別情報は決して返しません。
func (i *TokenIssuer) Verify(tokenStr string) (string, error) {
	keyFunc := func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrTokenSignature
	case err != nil:
		return "", ErrTokenMalformed
	case !tok.Valid:
		return "", ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
