package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar  = "PORT"
	appNameVar  = "APP_NAME"
	envVar      = "ENV"
	seedUserVar = "SEED_USERNAME"
	seedPassVar = "SEED_PASSWORD"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetSeedUsername() string
	GetSeedPassword() string
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go BFF Server")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

// GetSeedUsername is the username pre-registered at startup so the flow
// is usable without calling the register endpoint first.
func (EnvVars) GetSeedUsername() string {
	return GetEnv(seedUserVar, "user")
}

func (EnvVars) GetSeedPassword() string {
	return GetEnv(seedPassVar, "password")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
