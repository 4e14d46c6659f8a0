package server

import (
	"context"
	"net/http"

	"tailscale.com/client/tailscale/apitype"
)

// WhoIsClient resolves the tailnet identity behind a remote address.
// *local.Client from tsnet satisfies it.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// UserInfo identifies the calling user for the duration of a request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

type contextKey string

const (
	userInfoKey contextKey = "userInfo"
	userIDKey   contextKey = "userID"
)

// Identity resolves the caller to a database user and stores both the
// user info and the user ID on the request context. Over a tailnet the
// identity comes from WhoIs; in dev mode every request maps to the
// "local" user.
func (s *Server) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := UserInfo{Login: "local", DisplayName: "Local User"}

		if s.whois != nil {
			resp, err := s.whois.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil {
				s.log.Error("whois failed", "remote", r.RemoteAddr, "error", err)
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "unable to identify caller"})
				return
			}
			if resp.UserProfile != nil {
				info.Login = resp.UserProfile.LoginName
				info.DisplayName = resp.UserProfile.DisplayName
			}
		}

		uid, err := s.db.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
		if err != nil {
			s.log.Error("user lookup failed", "login", info.Login, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user lookup failed"})
			return
		}

		ctx := context.WithValue(r.Context(), userInfoKey, info)
		ctx = context.WithValue(ctx, userIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// mustUserID pulls the resolved user ID off the request context. A miss
// means the identity middleware did not run; respond 500 and bail.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	uid, ok := r.Context().Value(userIDKey).(int)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no user on request"})
		return 0, false
	}
	return uid, true
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := r.Context().Value(userInfoKey).(UserInfo)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no user on request"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}
