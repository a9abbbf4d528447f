package api

import (
	"log"
	stdhttp "net/http"

	intconfig "railbook/internal/config"
	"railbook/internal/http/handlers"
	"railbook/internal/http/middleware"
	"railbook/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, h *handlers.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth(h.Tokens)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/places", h.Places)
		api.GET("/trains", h.Trains)
		api.POST("/quote", h.Quote)

		api.POST("/auth/login", h.Login)

		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)

		scoped := bookings.Group("/:id", auth, middleware.RequireBookingAccess("id"))
		scoped.GET("", h.GetBooking)
		scoped.POST("/cancel", h.CancelBooking)
		scoped.GET("/e-ticket", h.ETicket)

		admin := api.Group("/admin", auth, middleware.RequireRoles(services.RoleAdmin))
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/reports", h.TrainReports)
	}

	return r
}
