package http

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// Flash categories rendered by the layout.
const (
	flashSuccess = "success"
	flashError   = "error"
)

const cookieTokenKey = "token"

// flash is one message shown once on the next rendered page.
type flash struct {
	Category string
	Message  string
}

// cookieSessions keeps the session token and flash messages in a signed
// cookie. Account state lives server-side behind the token.
type cookieSessions struct {
	store *sessions.CookieStore
	name  string
}

func newCookieSessions(cfg Config) *cookieSessions {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return &cookieSessions{store: store, name: cfg.SessionCookieName}
}

// load never fails: an undecodable cookie yields a fresh session.
func (c *cookieSessions) load(r *http.Request) *sessions.Session {
	sess, err := c.store.Get(r, c.name)
	if err != nil {
		logger.FromContext(r.Context()).Debug("discarding unreadable session cookie", logger.Err(err))
	}
	return sess
}

func (c *cookieSessions) token(r *http.Request) string {
	tok, _ := c.load(r).Values[cookieTokenKey].(string)
	return tok
}

// update applies fn to the request's cookie session and writes it back.
// It must run before the response body is written.
func (c *cookieSessions) update(w http.ResponseWriter, r *http.Request, fn func(*cookieSession)) {
	sess := c.load(r)
	fn(&cookieSession{sess})
	if err := sess.Save(r, w); err != nil {
		logger.FromContext(r.Context()).Error("failed to save session cookie", logger.Err(err))
	}
}

// flashes pops pending messages, success first. The cookie is rewritten only
// when something was popped.
func (c *cookieSessions) flashes(w http.ResponseWriter, r *http.Request) []flash {
	sess := c.load(r)

	var out []flash
	for _, cat := range []string{flashSuccess, flashError} {
		for _, v := range sess.Flashes(cat) {
			if msg, ok := v.(string); ok {
				out = append(out, flash{Category: cat, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			logger.FromContext(r.Context()).Error("failed to save session cookie", logger.Err(err))
		}
	}
	return out
}

type cookieSession struct {
	*sessions.Session
}

func (s *cookieSession) setToken(token string) { s.Values[cookieTokenKey] = token }
func (s *cookieSession) clearToken()           { delete(s.Values, cookieTokenKey) }

func (s *cookieSession) addFlash(category, msg string) {
	s.AddFlash(msg, category)
}
