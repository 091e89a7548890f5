package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"luxejournal/internal/bootstrap"
	"luxejournal/internal/config"
)

func TestHealthDegradedWithoutBrokerAndWorker(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	app := &bootstrap.App{
		Config: &config.Config{
			App: config.AppConfig{Name: "luxejournal", Env: "test"},
		},
		MySQL: db,
		// Port 1 is never listening; the ping fails fast.
		Redis:     redisv9.NewClient(&redisv9.Options{Addr: "127.0.0.1:1"}),
		StartedAt: time.Now(),
	}

	router := gin.New()
	router.GET("/healthz", NewHealthHandler(app).Check)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from a degraded stack, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"status":"degraded"`, "rabbitmq", "activity_worker", `"app":"luxejournal"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected health payload to contain %q, got %s", want, body)
		}
	}
}
