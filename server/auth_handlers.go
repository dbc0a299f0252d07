package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	errs "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/server/response"
	log "github.com/sirupsen/logrus"
)

// decode binds the JSON request body onto v using the binding tags on v.
func decode(c *gin.Context, v interface{}) error {
	return c.ShouldBindJSON(v)
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if validationErrs := models.ValidateStruct(&user); len(validationErrs) > 0 {
			messages := make([]string, 0, len(validationErrs))
			for _, err := range validationErrs {
				messages = append(messages, err.Error())
			}
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(strings.Join(messages, " "), http.StatusBadRequest))
			return
		}

		created, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if s.Mail != nil {
			// Best effort: a failed welcome email never fails the signup.
			go func(email string) {
				if _, err := s.Mail.SendWelcomeMessage(email, "Welcome to Jiseti"); err != nil {
					log.Printf("error sending welcome email to %s: %v", email, err)
				}
			}(created.Email)
		}

		response.JSON(c, "signup successful", http.StatusCreated, created.Response(created.Role.Name), nil)
	}
}

func (s *Server) handleAdminSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if validationErrs := models.ValidateStruct(&user); len(validationErrs) > 0 {
			messages := make([]string, 0, len(validationErrs))
			for _, err := range validationErrs {
				messages = append(messages, err.Error())
			}
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(strings.Join(messages, " "), http.StatusBadRequest))
			return
		}

		created, err := s.AuthService.SignupAdmin(&user)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		response.JSON(c, "admin signup successful", http.StatusCreated, created.Response(models.RoleAdmin), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		loginResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleAdminLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		loginResponse, err := s.AuthService.LoginAdmin(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "admin login successful", http.StatusOK, loginResponse, nil)
	}
}

// handleLogout blacklists the presented token until it would have expired
// naturally.
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		accessToken, _ := c.Get("access_token")
		token, ok := accessToken.(string)
		if !ok || token == "" || user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		blacklist := &models.Blacklist{
			Email: user.Email,
			Token: token,
		}
		if err := s.AuthRepository.AddToBlackList(blacklist); err != nil {
			response.JSON(c, "logout failed", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentActor(c)
		profile, err := s.AuthService.GetUserProfile(actor.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile retrieved successfully", http.StatusOK, profile, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var details models.EditProfileRequest
		if err := decode(c, &details); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		actor := currentActor(c)
		if err := s.AuthService.EditUserProfile(actor.ID, &details); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "profile updated successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := s.NotificationService.GetUserNotifications(currentActor(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "notifications retrieved successfully", http.StatusOK, notifications, nil)
	}
}
