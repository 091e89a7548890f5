package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"luxejournal/internal/app"
	"luxejournal/internal/transport/http/middleware"
)

type AuthHandler struct {
	authService *app.AuthService
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Username": "",
		"Email":    "",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	input := app.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	_, err := h.authService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUsernameRequired),
			errors.Is(err, app.ErrEmailRequired),
			errors.Is(err, app.ErrPasswordTooShort),
			errors.Is(err, app.ErrAccountExists):
			middleware.AddFlash(c, "danger", err.Error())
			// Echo the values the service actually checked, not the
			// raw padded input.
			render(c, http.StatusOK, "register.html", gin.H{
				"Username": strings.TrimSpace(input.Username),
				"Email":    strings.ToLower(strings.TrimSpace(input.Email)),
			})
		default:
			renderError(c, http.StatusInternalServerError, "Registration failed, please try again later.")
		}
		return
	}

	middleware.AddFlash(c, "success", "Registration complete, please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Email": "",
		"Next":  c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.authService.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) {
			middleware.AddFlash(c, "danger", "Incorrect email or password.")
			render(c, http.StatusOK, "login.html", gin.H{
				"Email": strings.ToLower(strings.TrimSpace(email)),
				"Next":  c.Query("next"),
			})
			return
		}
		renderError(c, http.StatusInternalServerError, "Login failed, please try again later.")
		return
	}

	// Full session reset on login: nothing from the anonymous session
	// survives, only the fresh user id.
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Login failed, please try again later.")
		return
	}

	middleware.AddFlash(c, "success", fmt.Sprintf("Welcome back, %s!", user.Username))

	next := c.Query("next")
	if !middleware.SafeNext(next) {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	middleware.AddFlash(c, "info", "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}
