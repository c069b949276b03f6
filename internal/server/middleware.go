package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tailscale.com/client/local"
)

type contextKey int

const userInfoKey contextKey = iota

// UserInfo is the resolved identity for a request. Login is the stable
// user id threaded into every engine call.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

func withUserInfo(ctx context.Context, info UserInfo) context.Context {
	return context.WithValue(ctx, userInfoKey, info)
}

// userInfoFromContext returns the identity set by middleware, falling back
// to the local dev identity.
func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return UserInfo{Login: "local", DisplayName: "Local Dev User"}
}

// userFromContext returns the user id for a request.
func userFromContext(r *http.Request) string {
	return userInfoFromContext(r).Login
}

// DevIdentity stores the local dev identity for every request. Used when
// the server runs off-tailnet.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := withUserInfo(r.Context(), UserInfo{Login: "local", DisplayName: "Local Dev User"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TailscaleIdentity resolves the caller's tailnet identity via who-is and
// stores it for handlers. Requests the node can't attribute are rejected.
func TailscaleIdentity(lc *local.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := lc.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil || who.UserProfile == nil {
				http.Error(w, `{"error":"unknown tailnet identity"}`, http.StatusForbidden)
				return
			}
			info := UserInfo{
				Login:       who.UserProfile.LoginName,
				DisplayName: who.UserProfile.DisplayName,
			}
			next.ServeHTTP(w, r.WithContext(withUserInfo(r.Context(), info)))
		})
	}
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
