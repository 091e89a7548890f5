package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luxejournal/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type componentStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check reports the blog's backing services plus the activity worker,
// which is not a connection but still has to be alive for the audit
// trail to land.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := map[string]componentStatus{
		"mysql":           h.checkMySQL(ctx),
		"redis":           h.checkRedis(ctx),
		"rabbitmq":        h.checkRabbitMQ(),
		"activity_worker": h.checkActivityWorker(),
	}

	overall := "ok"
	statusCode := http.StatusOK
	for _, status := range components {
		if !status.OK {
			overall = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(statusCode, gin.H{
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"status":     overall,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"components": components,
	})
}

func (h *HealthHandler) checkMySQL(ctx context.Context) componentStatus {
	sqlDB, err := h.app.MySQL.DB()
	if err != nil {
		return componentStatus{OK: false, Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentStatus{OK: false, Message: err.Error()}
	}
	return componentStatus{OK: true}
}

func (h *HealthHandler) checkRedis(ctx context.Context) componentStatus {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Message: err.Error()}
	}
	return componentStatus{OK: true}
}

func (h *HealthHandler) checkRabbitMQ() componentStatus {
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return componentStatus{OK: false, Message: "connection closed"}
	}
	return componentStatus{OK: true}
}

func (h *HealthHandler) checkActivityWorker() componentStatus {
	if h.app.ActivityWorker == nil || !h.app.ActivityWorker.Running() {
		return componentStatus{OK: false, Message: "consume loop not running"}
	}
	return componentStatus{OK: true}
}
