package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"stickpad/pkg/logger"
)

type contextKey string

const UserIDKey contextKey = "userID"

// SessionCookie carries the signed session token between requests.
const SessionCookie = "stickpad_session"

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("STICKPAD_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("STICKPAD_JWT_SECRET environment variable not set")
	}
	return []byte(secret), nil
}

// sessionUserID resolves the request's session token to a user id. The token
// is read from the session cookie, with a bearer header fallback for curl and
// a query fallback for websocket clients. ok is false when no token is
// present or it fails validation.
func sessionUserID(r *http.Request) (string, bool) {
	var tokenString string
	if c, err := r.Cookie(SessionCookie); err == nil {
		tokenString = c.Value
	}
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret()
	})
	if err != nil || !token.Valid {
		logger.Sugar.Warnf("Invalid session token: %v", err)
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userID, ok := claims["sub"].(string)
	return userID, ok
}

// AuthMiddleware resolves the session to a user id and stores it in the
// request context; requests without a valid session get a 401.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r)
		if !ok {
			http.Error(w, "Unauthorized: no valid session", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORSMiddleware lets the browser front end call the API from another origin.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
