package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whatsapp-console/internal/api/middleware"
	"whatsapp-console/internal/config"
	"whatsapp-console/internal/store"
	"whatsapp-console/internal/webhook"
	"whatsapp-console/internal/whatsapp"
	"whatsapp-console/internal/ws"
)

// RegisterRoutes attaches middleware and all endpoints to the engine. All
// dependencies are injected so tests can mount the full API against an
// in-memory store and a fake provider.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, st *store.Store, client *whatsapp.Client, hub *ws.Hub) {
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			hub.ServeWs(c.Writer, c.Request)
		})
	}

	webhookHandler := webhook.NewHandler(cfg, st, client, hub)
	contactHandler := NewContactHandler(st)
	messageHandler := NewMessageHandler(st)
	flowHandler := NewFlowHandler(st)
	templateHandler := NewTemplateHandler(st)
	sendHandler := NewSendHandler(st, client, hub)
	statsHandler := NewStatsHandler(st)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/webhooks/whatsapp", webhookHandler.Verify)
		apiGroup.POST("/webhooks/whatsapp", webhookHandler.HandleEvents)

		apiGroup.GET("/contacts", contactHandler.GetContacts)
		apiGroup.GET("/contacts/:id", contactHandler.GetContact)
		apiGroup.POST("/contacts", contactHandler.CreateContact)

		apiGroup.GET("/messages", messageHandler.GetMessages)
		apiGroup.GET("/messages/contact/:id", messageHandler.GetMessagesByContact)
		apiGroup.POST("/messages", messageHandler.CreateMessage)
		apiGroup.PATCH("/messages/:id/status", messageHandler.UpdateMessageStatus)

		apiGroup.GET("/flows", flowHandler.GetFlows)
		apiGroup.GET("/flows/active", flowHandler.GetActiveFlows)
		apiGroup.GET("/flows/:id", flowHandler.GetFlow)
		apiGroup.POST("/flows", flowHandler.CreateFlow)
		apiGroup.PATCH("/flows/:id", flowHandler.UpdateFlow)
		apiGroup.DELETE("/flows/:id", flowHandler.DeleteFlow)

		apiGroup.GET("/templates", templateHandler.GetTemplates)
		apiGroup.GET("/templates/:id", templateHandler.GetTemplate)
		apiGroup.POST("/templates", templateHandler.CreateTemplate)
		apiGroup.PATCH("/templates/:id", templateHandler.UpdateTemplate)
		apiGroup.DELETE("/templates/:id", templateHandler.DeleteTemplate)

		apiGroup.POST("/whatsapp/send", sendHandler.SendMessage)

		apiGroup.GET("/stats", statsHandler.GetStats)
	}
}
