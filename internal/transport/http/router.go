package rest

import (
	"net/http"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/message"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler — служебные эндпоинты консьюмера.
type Handler struct {
	session ports.SessionInspector
	recent  ports.RecentMessages // nil — эндпоинты /messages не регистрируются
	log     ports.Logger
}

func NewHandler(session ports.SessionInspector, recent ports.RecentMessages, log ports.Logger) *Handler {
	return &Handler{session: session, recent: recent, log: log}
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Status — ответ /status.
type Status struct {
	State    string `json:"state"`
	Topic    string `json:"topic"`
	Consumed int    `json:"consumed"`
	Healthy  bool   `json:"healthy"`
}

// NewRouter — gin-роутер ops-сервера. otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.healthz)
	r.GET("/status", h.status)

	if h.recent != nil {
		r.GET("/messages", h.listMessages)
		r.GET("/messages/:key", h.getMessageByKey)
	}

	return r
}

// healthz — 200, пока подписка активна (Subscribed/Running), иначе 503.
func (h *Handler) healthz(c *gin.Context) {
	if !h.session.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "state": h.session.StateName()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "state": h.session.StateName()})
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, Status{
		State:    h.session.StateName(),
		Topic:    h.session.Topic(),
		Consumed: h.session.Consumed(),
		Healthy:  h.session.Healthy(),
	})
}

func (h *Handler) getMessageByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty key"})
		return
	}
	seen, ok := h.recent.Get(c.Request.Context(), key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, seen)
}

func (h *Handler) listMessages(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, defaultListLimit, maxListLimit)
	items := h.recent.List(c.Request.Context(), limit, offset)
	if items == nil {
		items = []message.Seen{}
	}
	c.JSON(http.StatusOK, items)
}
