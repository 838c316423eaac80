package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a credential-store entry. Only the hash of the password is kept;
// the store exists to answer "do these credentials match", nothing more.
type User struct {
	ID           string    `json:"id,omitempty"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"` // never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
