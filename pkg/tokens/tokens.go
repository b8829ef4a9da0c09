// Package tokens отвечает за разбор и выпуск access-токенов.
// Выпуск токенов принадлежит сервису аутентификации; здесь он нужен только для тестов.
package tokens

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims — полезная нагрузка access-токена: идентификатор пользователя в Subject и роль.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken выпускает подписанный HS256 access-токен для указанного пользователя.
func NewAccessToken(userID int64, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// AccessClaimsFromToken разбирает и валидирует access-токен, возвращая его claims.
func AccessClaimsFromToken(tokenStr string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, e.ErrUnauthorized
	}

	return claims, nil
}

// UserID извлекает идентификатор пользователя из Subject.
func (c *AccessClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, e.ErrUnauthorized
	}
	return id, nil
}
