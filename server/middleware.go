package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/server/response"
	"github.com/jisetihq/jiseti/services/jwt"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const actorKey = "actor"

// Authorize resolves the bearer token into an actor and installs it in the
// request context. Every authorization decision downstream goes through the
// actor's capability methods, never through raw role strings.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "access token is blacklisted", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		idValue, ok := accessClaims["id"].(float64)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("invalid token claims", http.StatusUnauthorized))
			return
		}

		user, err := s.AuthRepository.FindUserByID(uint(idValue))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
				return
			}
			respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if !user.IsEmailActive {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.InActiveUserError)
			return
		}

		actor := models.UserActor(user.ID)
		if user.AdminStatus || user.Role.Name == models.RoleAdmin {
			actor = models.AdminActor(user.ID)
		}

		c.Set(actorKey, actor)
		c.Set("user", user)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// AdminOnly guards the admin route group. It runs after Authorize, so a
// missing actor means a wiring mistake rather than a missing token.
func (s *Server) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).IsAdmin() {
			respondAndAbort(c, "", http.StatusForbidden, nil, errs.New("admin access required", http.StatusForbidden))
			return
		}
		c.Next()
	}
}

// currentActor returns the actor installed by Authorize, or the anonymous
// actor on unauthenticated routes.
func currentActor(c *gin.Context) models.Actor {
	if value, exists := c.Get(actorKey); exists {
		if actor, ok := value.(models.Actor); ok {
			return actor
		}
	}
	return models.AnonymousActor()
}

func currentUser(c *gin.Context) *models.User {
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

// rateLimitStore backs the limiters with redis when configured, falling back
// to the in-process store for single-node and local runs.
func (s *Server) rateLimitStore(rate time.Duration, limit uint) ratelimit.Store {
	if s.Config != nil && s.Config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: s.Config.RedisAddr})
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        rate,
			Limit:       limit,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
}

// limitAnonymousReports throttles the public report endpoint per client IP.
func (s *Server) limitAnonymousReports() gin.HandlerFunc {
	return ratelimit.RateLimiter(s.rateLimitStore(time.Minute, 5), &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			return "anon-report:" + c.ClientIP()
		},
	})
}

// limitForgotPassword throttles reset requests per target email so one
// address cannot be flooded with reset mail.
func (s *Server) limitForgotPassword() gin.HandlerFunc {
	return ratelimit.RateLimiter(s.rateLimitStore(time.Hour, 3), &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      forgotPasswordKey,
	})
}

// forgotPasswordKey reads the request body for the target email and puts the
// body back so the handler can decode it again.
func forgotPasswordKey(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "forgot:" + c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var req models.ForgotPassword
	if err := decode(c, &req); err != nil || req.Email == "" {
		c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
		return "forgot:" + c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return "forgot:" + req.Email
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}
