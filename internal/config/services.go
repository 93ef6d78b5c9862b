package config

import (
	"time"
)

// CollaboratorConfig locates the services a session talks to
type CollaboratorConfig struct {
	QuestionServiceURL     string
	VerificationServiceURL string
	ExecutorServiceURL     string
	Timeout                time.Duration
	ExecutorTimeout        time.Duration
}

func NewCollaboratorConfig() *CollaboratorConfig {
	return &CollaboratorConfig{
		QuestionServiceURL:     getEnv("QUESTION_SERVICE_URL", "http://localhost:8090/api"),
		VerificationServiceURL: getEnv("VERIFICATION_SERVICE_URL", "http://localhost:8090/api"),
		ExecutorServiceURL:     getEnv("EXECUTOR_SERVICE_URL", "http://localhost:8091/api"),
		Timeout:                getSecondsEnv("COLLABORATOR_TIMEOUT_SEC", 10),
		ExecutorTimeout:        getSecondsEnv("EXECUTOR_TIMEOUT_SEC", 60),
	}
}

type SessionConfig struct {
	MaxLive              int
	MaxNotices           int
	DefaultCode          string
	VerificationCacheTTL time.Duration
}

func NewSessionConfig() *SessionConfig {
	return &SessionConfig{
		MaxLive:              getIntEnv("SESSION_MAX_LIVE", 1000),
		MaxNotices:           getIntEnv("SESSION_MAX_NOTICES", 50),
		DefaultCode:          getEnv("SESSION_DEFAULT_CODE", ""),
		VerificationCacheTTL: getSecondsEnv("VERIFICATION_CACHE_TTL_SEC", 120),
	}
}
