package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a user of the application. Administrators are users with
// AdminStatus set and an assigned AdminNumber.
type User struct {
	Model
	Fullname       string         `json:"fullname" binding:"required,min=2" conform:"name"`
	Username       string         `json:"username" binding:"required,min=2" conform:"trim"`
	Telephone      string         `json:"telephone" gorm:"default:null" conform:"trim"`
	Email          string         `json:"email" gorm:"unique;not null" binding:"required,email" conform:"email"`
	Password       string         `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string         `json:"-"`
	IsEmailActive  bool           `json:"-"`
	AdminStatus    bool           `json:"is_admin"`
	AdminNumber    string         `json:"admin_number,omitempty" gorm:"default:null"`
	LastLogin      *time.Time     `json:"last_login,omitempty"`
	ThumbNailURL   string         `json:"thumbnail_url,omitempty"`
	RoleID         uuid.UUID      `gorm:"type:uuid" json:"role_id"`
	Role           Role           `gorm:"foreignKey:RoleID" json:"role"`
	Notifications  []Notification `gorm:"foreignKey:UserID" json:"-"`
}

// ValidateStruct runs conform sanitation and the struct validators, returning
// human readable messages.
func ValidateStruct(req interface{}) []error {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	err := validateWhiteSpaces(req)
	errs := translateError(err, trans)
	err = validate.Struct(req)
	errs = append(errs, translateError(err, trans)...)
	return errs
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(15, errors.New("password cant be more than 15 characters")))
	err := passwordValidator.Validate(password)
	return err
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Fullname    string `json:"fullname"`
	Username    string `json:"username"`
	Telephone   string `json:"telephone"`
	Email       string `json:"email"`
	AdminNumber string `json:"admin_number,omitempty"`
	RoleName    string `json:"role_name"`
}

func (u *User) Response(roleName string) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Username:    u.Username,
		Telephone:   u.Telephone,
		Email:       u.Email,
		AdminNumber: u.AdminNumber,
		RoleName:    roleName,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RoleID       string `json:"role_id"`
}

type EditProfileRequest struct {
	Fullname  string `json:"fullname" conform:"name"`
	Username  string `json:"username" conform:"trim"`
	Telephone string `json:"telephone" conform:"trim"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
