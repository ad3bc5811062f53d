package httptransport

import (
	"log/slog"

	"github.com/caxgpt/todo-api/internal/token"
	"github.com/caxgpt/todo-api/internal/transport/http/handler"
	"github.com/caxgpt/todo-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, todoHandler *handler.TodoHandler, codec *token.Codec) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(codec)

	// OAuth2 / auth routes (public)
	oauth := r.Group("/api/oauth")
	oauth.POST("/signup", authHandler.Signup)
	oauth.POST("/login", authHandler.Login)
	oauth.POST("/token", authHandler.Token)
	oauth.GET("/temp-code", authHandler.TempCode)

	r.GET("/api/auth/verify-email", authHandler.VerifyEmail)

	// Protected user routes
	r.GET("/api/users/me", authMW, authHandler.Me)

	// Protected todo routes
	todos := r.Group("/api/todos", authMW)
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.GET("/:id", todoHandler.GetByID)
	todos.PUT("/:id", todoHandler.Update)
	todos.PATCH("/:id", todoHandler.Patch)
	todos.DELETE("/:id", todoHandler.Delete)

	return r
}
