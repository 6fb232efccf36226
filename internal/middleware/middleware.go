package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/bishalghimire/merotopup-backend/internal/user"
	"github.com/golang-jwt/jwt/v4"
)

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func GzipHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") == "gzip" {
			gzr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(rw, "Failed to create gzip reader", http.StatusBadRequest)
				return
			}
			defer gzr.Close()
			r.Body = io.NopCloser(gzr)
		}

		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			rw.Header().Set("Content-Encoding", "gzip")
			gzw := gzip.NewWriter(rw)
			defer gzw.Close()

			gzrw := gzipResponseWriter{Writer: gzw, ResponseWriter: rw}
			next.ServeHTTP(gzrw, r)
		} else {
			next.ServeHTTP(rw, r)
		}
	})
}

type ctxKeyUserID struct{}

// JWTMiddleware authenticates a Bearer token and confirms the subject still
// exists in the store before letting the request through.
func JWTMiddleware(secret []byte, repo user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(auth, "Bearer ")

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := repo.FindUserByID(r.Context(), claims.Subject)
			if err != nil || u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUserID{}, u.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWT injects the user ID when a valid token is present and lets the
// request through as a guest otherwise. The chat flow works pre-login.
func OptionalJWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				claims := &jwt.RegisteredClaims{}
				token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
					return secret, nil
				})
				if err == nil && token.Valid {
					r = r.WithContext(context.WithValue(r.Context(), ctxKeyUserID{}, claims.Subject))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID{}).(string)
	return id
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, userID)
}
