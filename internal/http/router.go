package httpx

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/internal/http/handlers"
	"github.com/you/adminconsole/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, rh *handlers.ResourceHandlers, ph *handlers.PolicyHandlers, guard *middleware.GuardMW, pm *middleware.PolicyMW, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/session", ah.Session)

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/resend-otp", ah.ResendOTP)
	auth.POST("/cancel-otp", ah.CancelOTP)
	auth.POST("/register", ah.Register)
	auth.POST("/logout", ah.Logout)
	auth.GET("/me", guard.Require(), ah.Me)

	adm := r.Group("/admin").Use(guard.Require(), pm.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	adm.GET("/:resource", rh.List)
	adm.POST("/:resource", rh.Create)
	adm.POST("/:resource/bulk", rh.Bulk)
	adm.GET("/:resource/:id", rh.Get)
	adm.PUT("/:resource/:id", rh.Update)
	adm.PATCH("/:resource/:id", rh.Patch)
	adm.DELETE("/:resource/:id", rh.Delete)

	return r
}
