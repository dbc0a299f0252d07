package models

// Blacklist holds tokens that were invalidated by logout before their expiry.
type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `gorm:"index" json:"token"`
}
