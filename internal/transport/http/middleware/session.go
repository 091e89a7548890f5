package middleware

import (
	"encoding/gob"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"luxejournal/internal/app"
	"luxejournal/internal/model"
)

const (
	// SessionKeyUserID is the only value the session cookie carries.
	SessionKeyUserID = "user_id"

	// ContextUserKey holds the resolved *model.User for the request.
	ContextUserKey = "current_user"
)

// Flash is a one-shot status message carried across a redirect.
// Level matches the bootstrap alert classes the templates use.
type Flash struct {
	Level   string
	Message string
}

func init() {
	// The cookie store serializes session values with gob.
	gob.Register(Flash{})
}

func AddFlash(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Level: level, Message: message})
	_ = session.Save()
}

// TakeFlashes drains pending flashes; reading them clears them.
func TakeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		if flash, ok := item.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// LoadCurrentUser resolves the session's user id on every request. A
// session pointing at a user that no longer exists resolves to
// anonymous; it never fails the request.
func LoadCurrentUser(authService *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := readUint(session.Get(SessionKeyUserID))
		if userID == 0 {
			c.Next()
			return
		}

		user, err := authService.GetUserByID(userID)
		if err != nil || user == nil {
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the request's authenticated user, or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// RequireUser is the guard protected handlers call first. When the
// caller is anonymous it flashes a warning, redirects to the login form
// with the requested path as ?next=, and reports false; the handler
// must not proceed.
func RequireUser(c *gin.Context) (*model.User, bool) {
	if user := CurrentUser(c); user != nil {
		return user, true
	}

	AddFlash(c, "warning", "Please log in to use this feature.")
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
	c.Abort()
	return nil, false
}

// SafeNext reports whether a ?next= target is a local path we are
// willing to redirect to after login.
func SafeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}

func readUint(v interface{}) uint {
	switch id := v.(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	case int64:
		if id > 0 {
			return uint(id)
		}
	case float64:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
