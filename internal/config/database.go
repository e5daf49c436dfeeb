package config

import (
	"strings"
	"time"
)

type DatabaseConfig struct {
	URI            string
	Database       string
	Password       string
	MaxPoolSize    int
	MinPoolSize    int
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

func loadDatabaseConfig() *DatabaseConfig {
	password := getEnv("MONGODB_PASSWORD", "")

	// the URI may carry a <PASSWORD> placeholder so that the credential can be
	// provided separately from the connection string
	uri := getEnv("MONGODB_URI", "mongodb://localhost:27017/gotours")
	uri = strings.ReplaceAll(uri, "<PASSWORD>", password)

	return &DatabaseConfig{
		URI:            uri,
		Database:       getEnv("MONGODB_DATABASE", "gotours"),
		Password:       password,
		MaxPoolSize:    getEnvAsInt("MONGODB_MAX_POOL_SIZE", 100),
		MinPoolSize:    getEnvAsInt("MONGODB_MIN_POOL_SIZE", 5),
		ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:  getEnvAsDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
	}
}
