package utils

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// The platform only accepts Gmail addresses for citizen accounts.
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".flv": true, ".webm": true, ".mkv": true,
}

// ValidateEmail checks the Gmail-only address rule.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("email must be a valid gmail address")
	}
	return nil
}

// ValidateCoordinates enforces that latitude and longitude arrive as a pair
// and sit inside the valid ranges. Both nil is fine: location is optional.
func ValidateCoordinates(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return fmt.Errorf("latitude and longitude must be provided together")
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateMediaURL checks the scheme and the file extension of an external
// media reference against the whitelist for its media type.
func ValidateMediaURL(rawURL string, mediaType string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s url", mediaType)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s url must use http or https", mediaType)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid %s url", mediaType)
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch mediaType {
	case "image":
		if !imageExtensions[ext] {
			return fmt.Errorf("image url must end in a supported image extension")
		}
	case "video":
		if !videoExtensions[ext] {
			return fmt.Errorf("video url must end in a supported video extension")
		}
	default:
		return fmt.Errorf("unknown media type %q", mediaType)
	}
	return nil
}

// SupportedImageExtension reports whether ext (with leading dot) is an
// accepted image upload format.
func SupportedImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// SupportedVideoExtension reports whether ext (with leading dot) is an
// accepted video upload format.
func SupportedVideoExtension(ext string) bool {
	return videoExtensions[strings.ToLower(ext)]
}

// HashPassword hashes the provided password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
