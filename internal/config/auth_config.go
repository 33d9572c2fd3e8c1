package config

import "time"

type AuthConfig interface {
	GetJWTSecret() string
	GetSessionTokenExpiry() time.Duration
	IsDevelopment() bool
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "student_portal_dev_secret_2024")
}

// GetSessionTokenExpiry returns how long an issued session token stays
// valid. There is no server-side revocation; expiry is the only limit.
func (Auth) GetSessionTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

func (a Auth) IsDevelopment() bool {
	return EnvVars{}.GetEnv() == "DEV"
}
