// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP and WebSocket transport settings
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	// OperatorToken protects the room status API
	OperatorToken string

	ReadLimit    int64
	WriteTimeout time.Duration
	PongWait     time.Duration
	PingInterval time.Duration
	SendBuffer   int
}

// AuthConfig holds connection authentication settings
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string

	// DevMode enables the unsigned development sentinel token. Never enable in production.
	DevMode        bool
	DevToken       string
	DevUserID      string
	DevDisplayName string
	DevRoomCode    string
}

// SignalingConfig holds settings for the room state coordinator
type SignalingConfig struct {
	DeletionDelay time.Duration
	LookupTimeout time.Duration
	MaxChatLength int
	MaxImageBytes int
	TaskQueueSize int
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for room records (0 means no expiration)
	RoomTTL time.Duration
}

// ICEConfig holds the STUN/TURN servers handed to browsers
type ICEConfig struct {
	URLs       []string
	Username   string
	Credential string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// GetServerConfig loads transport configuration from environment variables
func GetServerConfig() ServerConfig {
	pongWait := getEnvDuration("WS_PONG_WAIT", 45*time.Second)
	pingInterval := getEnvDuration("WS_PING_INTERVAL", 20*time.Second)
	if pingInterval >= pongWait {
		pingInterval = pongWait / 2
	}

	return ServerConfig{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
		OperatorToken:  getEnv("OPERATOR_TOKEN", ""),
		ReadLimit:      int64(getEnvInt("WS_READ_LIMIT_BYTES", 1024*1024)),
		WriteTimeout:   getEnvDuration("WS_WRITE_TIMEOUT", 4*time.Second),
		PongWait:       pongWait,
		PingInterval:   pingInterval,
		SendBuffer:     getEnvInt("WS_SEND_BUFFER", 64),
	}
}

// GetAuthConfig loads authentication configuration from environment variables
func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		JWTIssuer:      getEnv("AUTH_JWT_ISSUER", ""),
		DevMode:        getEnvBool("AUTH_DEV_MODE", false),
		DevToken:       getEnv("AUTH_DEV_TOKEN", "dev-token"),
		DevUserID:      getEnv("AUTH_DEV_USER_ID", "dev-user"),
		DevDisplayName: getEnv("AUTH_DEV_DISPLAY_NAME", "Developer"),
		DevRoomCode:    getEnv("AUTH_DEV_ROOM_CODE", "dev-room"),
	}
}

// GetSignalingConfig loads room coordinator configuration from environment variables
func GetSignalingConfig() SignalingConfig {
	return SignalingConfig{
		DeletionDelay: getEnvDuration("ROOM_DELETION_DELAY", 5*time.Minute),
		LookupTimeout: getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second),
		MaxChatLength: getEnvInt("MAX_CHAT_LENGTH", 4000),
		MaxImageBytes: getEnvInt("MAX_IMAGE_BYTES", 2*1024*1024),
		TaskQueueSize: getEnvInt("SIGNALING_QUEUE_SIZE", 1024),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_ROOM_TTL_HOURS", "0"))
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", false),
		URI:       getEnv("REDIS_URI_HUDDLE", ""),
		Host:      getEnv("REDIS_HOST_HUDDLE", getEnv("REDIS_ADDRESS", "localhost")),
		Port:      getEnv("REDIS_PORT_HUDDLE", "6379"),
		Username:  getEnv("REDIS_USERNAME_HUDDLE", ""),
		Password:  getEnv("REDIS_PASSWORD_HUDDLE", getEnv("REDIS_PASSWORD", "")),
		DB:        db,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "huddle:"),
		RoomTTL:   ttl,
	}
}

// GetICEConfig loads STUN/TURN configuration from environment variables
func GetICEConfig() ICEConfig {
	return ICEConfig{
		URLs:       getEnvList("ICE_SERVERS"),
		Username:   getEnv("ICE_USERNAME", ""),
		Credential: getEnv("ICE_CREDENTIAL", ""),
	}
}

// GetLogConfig loads logger configuration from environment variables
func GetLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// IsJWTConfigured reports whether signed tokens can be verified
func (c AuthConfig) IsJWTConfigured() bool {
	return c.JWTSecret != ""
}
