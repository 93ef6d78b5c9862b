package config

import "os"

type JwtConfig struct {
	Secret        string
	SigningMethod string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret:        os.Getenv("JWT_SECRET"),
		SigningMethod: getEnv("JWT_SIGNING_METHOD", "HS256"),
	}
}
