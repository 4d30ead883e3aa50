package middleware

import (
	"net/http"
	"strings"

	"review-catalog/internal/data/repository"
	"review-catalog/internal/permission"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves an optional bearer token into the request identity.
// Requests without an Authorization header continue anonymously; a header
// that does not carry a valid token for an existing user is rejected.
func Authenticate(tokens *token.Manager, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				logger.Debug("Rejected token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			// Role changes and deletions take effect before the token expires.
			user, err := userRepo.FindByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.Error(err), zap.String("user_id", claims.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token for unknown user", zap.String("user_id", claims.UserID.String()))
				utils.ResponseUnauthorized(w, "User not found")
				return
			}

			ctx := permission.WithIdentity(r.Context(), permission.FromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
