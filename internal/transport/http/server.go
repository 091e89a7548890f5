package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	appsvc "luxejournal/internal/app"
	"luxejournal/internal/bootstrap"
	"luxejournal/internal/cache"
	"luxejournal/internal/config"
	"luxejournal/internal/platform/rabbitmq"
	"luxejournal/internal/repository"
	"luxejournal/internal/transport/http/handler"
	"luxejournal/internal/transport/http/middleware"
)

// TemplateFuncs is the FuncMap the page templates are parsed with.
var TemplateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("2006/01/02")
	},
	"excerpt": func(s string, max int) string {
		runes := []rune(s)
		if len(runes) <= max {
			return s
		}
		return string(runes[:max]) + "…"
	},
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	router.SetFuncMap(TemplateFuncs)
	router.LoadHTMLGlob("web/templates/*.html")

	router.Use(sessions.Sessions(app.Config.Session.CookieName, SessionStore(app.Config.Session)))

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	authService := appsvc.NewAuthService(userRepo)

	postCache := cache.NewPostListCache(app.Redis, time.Duration(app.Config.Redis.PostCacheTTLSeconds)*time.Second)
	publisher := rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	postService := appsvc.NewPostService(postRepo, publisher, postCache)

	router.Use(middleware.LoadCurrentUser(authService))

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	pageHandler := handler.NewPageHandler()
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)

	router.GET("/", postHandler.Home)
	router.GET("/about", pageHandler.About)
	router.GET("/vlogs", pageHandler.Vlogs)

	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	// "/post/new" rides the :id wildcard; Show and Submit dispatch on it.
	router.GET("/post/:id", postHandler.Show)
	router.POST("/post/:id", postHandler.Submit)
	router.GET("/post/:id/edit", postHandler.ShowEdit)
	router.POST("/post/:id/edit", postHandler.Update)
	router.POST("/post/:id/delete", postHandler.Delete)

	return router
}

// SessionStore builds the signed cookie store the session middleware
// runs on.
func SessionStore(cfg config.SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAgeMinute * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
