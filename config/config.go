package config

import (
	"os"
	"strings"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Configuration struct {
	App struct {
		ListenAddr       string `default:"" env:"APP_HOST"`
		Port             int    `default:"8080" env:"APP_PORT"`
		CorsAllowOrigins string `default:"" env:"CORS_ALLOW_ORIGINS"`
		BodyLimitBytes   int    `default:"1048576" env:"BODY_LIMIT_BYTES"`
		ErrNotifyURL     string `default:"" env:"ERR_NOTIFY_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"request-approval" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		SeedDemo       *bool  `default:"false" env:"DB_SEED_DEMO"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"604800" env:"JWT_EXPIRE_IN_SEC"`
		BcryptCost     int    `default:"10" env:"BCRYPT_COST"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load reads .env (when present) into the environment, then the config files
// and environment into a Configuration.
func Load(files ...string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to read .env")
	}
	if len(files) == 0 {
		files = configFiles()
	}
	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, files...); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c Configuration) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.App.Port <= 0 {
		return errors.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	return nil
}

func (c Configuration) MigrateOnStart() bool {
	return c.Database.MigrateOnStart != nil && *c.Database.MigrateOnStart
}

func (c Configuration) DebugMode() bool {
	return c.Database.DebugMode != nil && *c.Database.DebugMode
}

func (c Configuration) SeedDemo() bool {
	return c.Database.SeedDemo != nil && *c.Database.SeedDemo
}

// CorsOrigins splits the comma separated origin list; an empty list allows any origin.
func (c Configuration) CorsOrigins() []string {
	result := []string{}
	for _, origin := range strings.Split(c.App.CorsAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	if len(result) == 0 {
		return []string{"*"}
	}
	return result
}
