package config

import (
	"encoding/json"
	"os"

	"github.com/avolkovs/talentdesk/internal/flagx"
	"github.com/avolkovs/talentdesk/internal/timex"
)

// JsonConfig is the intermediate DTO for reading a JSON configuration file.
// Duration fields use timex.Duration so both "24h" strings and integer
// nanoseconds parse. After unmarshalling, non-zero fields are copied onto
// the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	FederationProvider           string         `json:"federation_provider"`
	FederationSecret             string         `json:"federation_secret"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	DevMode                      bool           `json:"dev_mode"`
}

// parseJson loads configuration from the JSON file named by the -c/-config
// flags. When no file is named, nothing happens. A file that cannot be read
// or parsed panics: a half-applied config file is worse than no startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(v string, target *string) {
		if v != "" {
			*target = v
		}
	}
	setString(c.EndpointAddr, &config.EndpointAddr)
	setString(c.DatabaseDSN, &config.DatabaseDSN)
	setString(c.SecretKey, &config.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(c.FederationProvider, &config.FederationProvider)
	setString(c.FederationSecret, &config.FederationSecret)
	setString(c.S3RootUser, &config.S3RootUser)
	setString(c.S3RootPassword, &config.S3RootPassword)
	setString(c.S3Bucket, &config.S3Bucket)
	setString(c.S3Region, &config.S3Region)
	setString(c.S3BaseEndpoint, &config.S3BaseEndpoint)
	if c.DevMode {
		config.DevMode = true
	}
}
