package config

import "os"

const (
	StoreBackendHTTP     = "http"
	StoreBackendPostgres = "postgres"
)

type AppConfig struct {
	DebugMode      bool
	HTTPPort       int
	ServiceName    string
	StoreBackend   string
	Collaborators  *CollaboratorConfig
	SessionConfig  *SessionConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HTTPPort:       getIntEnv("HTTP_PORT", 8082),
		ServiceName:    getEnv("SERVICE_NAME", "judgeSession"),
		StoreBackend:   getEnv("STORE_BACKEND", StoreBackendHTTP),
		Collaborators:  NewCollaboratorConfig(),
		SessionConfig:  NewSessionConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}
