package web

import (
	"time"

	"visa_slot_watcher/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the dashboard, the add form and the JSON API.
func NewRouter(requests *app.RequestService, logger *logrus.Entry) *gin.Engine {
	h := &handlers{requests: requests, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.SetHTMLTemplate(parseTemplates())

	router.GET("/", h.dashboard)
	router.GET("/dashboard", h.dashboard)
	router.GET("/add", h.addForm)
	router.POST("/add", h.addSubmit)
	router.GET("/delete/:id", h.delete)
	// Authentication is disabled; both routes land on the dashboard.
	router.GET("/login", h.toDashboard)
	router.GET("/logout", h.toDashboard)

	v1 := router.Group("/v1")
	v1.Use(cors.Default())
	{
		v1.GET("/requests", h.apiList)
		v1.POST("/requests", h.apiCreate)
		v1.DELETE("/requests/:id", h.apiDelete)
	}

	return router
}

func requestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Error("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}
