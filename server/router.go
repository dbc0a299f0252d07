package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jisetihq/jiseti/server/response"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")

	apirouter.GET("/health", func(c *gin.Context) {
		response.JSON(c, "ok", http.StatusOK, nil, nil)
	})

	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/admin/signup", s.handleAdminSignup())
	apirouter.POST("/auth/admin/login", s.handleAdminLogin())
	apirouter.POST("/password/forgot", s.limitForgotPassword(), s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())

	apirouter.POST("/public/report", s.limitAnonymousReports(), s.handleAnonymousReport())
	apirouter.GET("/public/records", s.handleGetPublicRecords())
	apirouter.GET("/public/records/:id", s.handleGetPublicRecordDetails())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/auth/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me/profile", s.handleEditUserProfile())
	authorized.GET("/me/notifications", s.handleGetNotifications())

	authorized.POST("/records", s.handleCreateRecord())
	authorized.GET("/records/:id", s.handleGetRecord())
	authorized.PATCH("/records/:id", s.handleUpdateRecord())
	authorized.DELETE("/records/:id", s.handleDeleteRecord())
	authorized.POST("/records/:id/media", s.handleAttachMedia())
	authorized.POST("/records/:id/vote", s.handleCastVote())
	authorized.DELETE("/records/:id/vote", s.handleRetractVote())
	authorized.PATCH("/records/:id/status", s.handleTransitionStatus())
	authorized.GET("/records/:id/history", s.handleGetRecordHistory())
	authorized.GET("/my-records", s.handleGetMyRecords())

	admin := authorized.Group("/admin")
	admin.Use(s.AdminOnly())
	admin.GET("/records", s.handleGetAllRecords())
	admin.GET("/stats", s.handleGetRecordStats())
}
