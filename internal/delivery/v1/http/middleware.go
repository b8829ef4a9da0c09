package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/DRSN-tech/marketplace-backend/internal/domain"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/DRSN-tech/marketplace-backend/pkg/tokens"
)

type ctxKey string

const userKey ctxKey = "user"

// AuthMiddleware проверяет Bearer-токен и кладёт пользователя в контекст запроса.
// Запрос без валидного токена отклоняется с 401 до входа в хендлер.
type AuthMiddleware struct {
	secret []byte
	logger logger.Logger
}

func NewAuthMiddleware(secret []byte, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, logger: logger}
}

func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			WriteError(w, e.ErrUnauthorized)
			return
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, m.secret)
		if err != nil {
			m.logger.Debugf("rejected access token: %v", err)
			WriteError(w, e.ErrUnauthorized)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			WriteError(w, e.ErrUnauthorized)
			return
		}

		user := domain.NewUser(userID, domain.Role(claims.Role))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// userFromCtx возвращает пользователя, положенного AuthMiddleware.
func userFromCtx(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil, e.ErrUnauthorized
	}
	return user, nil
}
