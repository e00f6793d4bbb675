package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it. Unset or unparsable variables leave the current
// value untouched.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(name string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}
	setDuration := func(name string, target *time.Duration) {
		if v := os.Getenv(name); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*target = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	setString("FEDERATION_PROVIDER", &config.FederationProvider)
	setString("FEDERATION_SECRET", &config.FederationSecret)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = cost
		}
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.DevMode = b
		}
	}
}
