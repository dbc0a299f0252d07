package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/server/response"
	"github.com/jisetihq/jiseti/services"
	"github.com/jisetihq/jiseti/services/jwt"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HandleForgotPassword mails a time-limited reset link. The response does not
// reveal whether the address belongs to an account.
func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ForgotPassword
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthRepository.FindUserByEmail(req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.JSON(c, "if the account exists, a reset link has been sent", http.StatusOK, nil, nil)
				return
			}
			log.Printf("error looking up user for password reset: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		resetToken, err := jwt.GeneratePasswordResetToken(user.ID, s.Config.JWTSecret)
		if err != nil {
			log.Printf("error generating reset token: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		baseURL := s.Config.BaseUrl
		if baseURL == "" {
			baseURL = "http://localhost:3000"
		}
		resetLink := fmt.Sprintf("%s/reset-password/%s", baseURL, resetToken)

		if _, err := s.Mail.SendResetPassword(user.Email, resetLink); err != nil {
			log.Printf("error sending reset email to %s: %v", user.Email, err)
			response.JSON(c, "connection to mail service interrupted", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		response.JSON(c, "if the account exists, a reset link has been sent", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResetPassword
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if req.Password != req.ConfirmPassword {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("passwords do not match", http.StatusBadRequest))
			return
		}
		if err := models.ValidatePassword(req.Password); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}

		userID, err := jwt.VerifyPasswordResetToken(c.Param("token"), s.Config.JWTSecret)
		if err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid or expired reset token", http.StatusUnauthorized))
			return
		}

		hashedPassword, err := services.GenerateHashPassword(req.Password)
		if err != nil {
			log.Printf("error hashing new password: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if err := s.AuthRepository.ResetPassword(userID, hashedPassword); err != nil {
			log.Printf("error resetting password for user %d: %v", userID, err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		response.JSON(c, "password reset successfully", http.StatusOK, nil, nil)
	}
}
