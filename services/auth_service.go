package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/config"
	"github.com/jisetihq/jiseti/db"
	apiError "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/jisetihq/jiseti/services/jwt"
	"github.com/jisetihq/jiseti/services/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.User) (*models.User, error)
	SignupAdmin(request *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LoginAdmin(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.UserResponse, error)
	EditUserProfile(userID uint, userDetails *models.EditProfileRequest) error
	GetRoleByName(name string) (*models.Role, error)
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("SignupUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := utils.ValidateEmail(user.Email); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	// Check if the email already exists
	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	// Check if the phone number already exists
	if user.Telephone != "" {
		if err := s.authRepo.IsPhoneExist(user.Telephone); err != nil {
			log.Printf("SignupUser error: %v", err)
			return nil, apiError.GetUniqueContraintError(err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = "" // Clear the plain password
	user.IsEmailActive = true

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Fetch the created user with its role preloaded
	createdUser, err := s.authRepo.FindUserByEmail(user.Email)
	if err != nil {
		log.Printf("SignupUser error fetching created user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return createdUser, nil
}

// SignupAdmin registers a user that carries the admin role from the start. The
// generated ADM number is the admin's human-facing identifier on audit views.
func (s *authService) SignupAdmin(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("SignupAdmin error: user is nil")
		return nil, errors.New("user is nil")
	}

	adminRole, err := s.authRepo.FindRoleByName(models.RoleAdmin)
	if err != nil {
		log.Printf("SignupAdmin error fetching admin role: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.RoleID = adminRole.ID
	user.AdminStatus = true

	suffix, err := GenerateRandomString()
	if err != nil {
		log.Printf("SignupAdmin error generating admin number: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.AdminNumber = fmt.Sprintf("ADM-%s", suffix)

	return s.SignupUser(user)
}

func GenerateHashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedPassword), err
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, apiErr := a.findUserForLogin(loginRequest)
	if apiErr != nil {
		return nil, apiErr
	}
	return a.loginResponse(foundUser)
}

// LoginAdmin is the admin variant of LoginUser: the account must carry admin
// status, and a successful login stamps last_login.
func (a *authService) LoginAdmin(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, apiErr := a.findUserForLogin(loginRequest)
	if apiErr != nil {
		return nil, apiErr
	}
	if !foundUser.AdminStatus {
		return nil, apiError.New("admin access required", http.StatusForbidden)
	}

	if err := a.authRepo.UpdateLastLogin(foundUser.ID); err != nil {
		// Not fatal for the login itself
		log.Printf("error updating last login for %s: %v", foundUser.Email, err)
	}

	return a.loginResponse(foundUser)
}

func (a *authService) findUserForLogin(loginRequest *models.LoginRequest) (*models.User, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(strings.ToLower(strings.TrimSpace(loginRequest.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}
	return foundUser, nil
}

func (a *authService) loginResponse(foundUser *models.User) (*models.LoginResponse, *apiError.Error) {
	roleName := foundUser.Role.Name
	if roleName == "" && foundUser.RoleID != uuid.Nil {
		role, err := a.authRepo.FindRoleByID(foundUser.RoleID)
		if err != nil {
			log.Printf("Error fetching role for user %s: %v", foundUser.Email, err)
			return nil, apiError.New("unable to fetch role", http.StatusInternalServerError)
		}
		roleName = role.Name
	}
	if roleName == "" {
		roleName = models.RoleUser
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, a.Config.JWTSecret, foundUser.AdminStatus, foundUser.ID, roleName)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: foundUser.Response(roleName),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RoleID:       foundUser.RoleID.String(),
	}, nil
}

func GenerateRandomString() (string, error) {
	n := 5
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := fmt.Sprintf("%X", b)
	return s, nil
}

func (a *authService) GetUserProfile(userID uint) (*models.UserResponse, error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	resp := user.Response(user.Role.Name)
	return &resp, nil
}

func (a *authService) EditUserProfile(userID uint, userDetails *models.EditProfileRequest) error {
	return a.authRepo.EditUserProfile(userID, userDetails)
}

// GetRoleByName retrieves a role from the repository by its name.
func (a *authService) GetRoleByName(name string) (*models.Role, error) {
	role, err := a.authRepo.FindRoleByName(name)
	if err != nil {
		return nil, err
	}
	return role, nil
}
