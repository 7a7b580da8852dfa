package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the signed-in user and flashes.
const SessionName = "travelbolt-session"

const userIDKey = "user_id"

// Session is the signed-in user of a request.
type Session struct {
	UserID string
	User   models.User
}

func (s *Session) IsAdmin() bool { return s != nil && s.User.IsAdmin }

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the request's session, if a user is signed in.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Sessions binds the cookie store to the users table.
type Sessions struct {
	Store sessions.Store
	Users *catalog.Users
}

// Middleware loads the user named by the session cookie into the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Store.Get(r, SessionName)
		if err != nil {
			slog.Debug("Ignoring unreadable session cookie", "error", err)
		}
		id, _ := sess.Values[userIDKey].(string)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.Users.Get(r.Context(), id)
		if err != nil {
			if !store.IsNotFound(err) {
				slog.Warn("Failed to load session user", "user_id", id, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), &Session{UserID: id, User: user})))
	})
}

// Begin signs user in on the response cookie.
func (s *Sessions) Begin(w http.ResponseWriter, r *http.Request, user models.User) error {
	sess, _ := s.Store.Get(r, SessionName)
	sess.Values[userIDKey] = user.ID
	return sess.Save(r, w)
}

// End expires the session cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.Store.Get(r, SessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
