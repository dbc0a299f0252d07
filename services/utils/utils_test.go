package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("citizen@gmail.com"))
	assert.NoError(t, ValidateEmail("  citizen.one+tag@gmail.com  "))
	assert.Error(t, ValidateEmail("citizen@yahoo.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateCoordinates(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	t.Run("both nil is valid", func(t *testing.T) {
		assert.NoError(t, ValidateCoordinates(nil, nil))
	})
	t.Run("must arrive as a pair", func(t *testing.T) {
		assert.Error(t, ValidateCoordinates(f(1.0), nil))
		assert.Error(t, ValidateCoordinates(nil, f(36.8)))
	})
	t.Run("in range", func(t *testing.T) {
		assert.NoError(t, ValidateCoordinates(f(-1.2921), f(36.8219)))
		assert.NoError(t, ValidateCoordinates(f(90), f(180)))
		assert.NoError(t, ValidateCoordinates(f(-90), f(-180)))
	})
	t.Run("out of range", func(t *testing.T) {
		assert.Error(t, ValidateCoordinates(f(90.1), f(0)))
		assert.Error(t, ValidateCoordinates(f(0), f(-180.5)))
	})
}

func TestValidateMediaURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		mediaType string
		wantErr   bool
	}{
		{"valid image", "https://cdn.example.com/photo.jpg", "image", false},
		{"valid video", "http://cdn.example.com/clip.mp4", "video", false},
		{"image with wrong extension", "https://cdn.example.com/clip.mp4", "image", true},
		{"video with wrong extension", "https://cdn.example.com/photo.png", "video", true},
		{"bad scheme", "ftp://cdn.example.com/photo.jpg", "image", true},
		{"no host", "https:///photo.jpg", "image", true},
		{"unknown media type", "https://cdn.example.com/photo.jpg", "audio", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMediaURL(tt.url, tt.mediaType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	assert.True(t, SupportedImageExtension(".JPG"))
	assert.True(t, SupportedVideoExtension(".webm"))
	assert.False(t, SupportedImageExtension(".exe"))
	assert.False(t, SupportedVideoExtension(".jpg"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
