package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds environment-based settings
type Config struct {
	AppEnv         string
	ServerAddress  string
	JWTSecret      string
	AdminUsername  string
	AdminPassHash  string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL   string
	MQTTTopicPrefix string

	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string

	TimetableSource string
	TimetablePath   string
	TimetableURL    string
	TimetableKey    string
	WatchTimetable  bool

	Locality Locality
}

// Locality is the single place the board serves.
type Locality struct {
	Name      string    `yaml:"name"`
	TimeZone  string    `yaml:"timezone"`
	Timetable string    `yaml:"timetable"`
	Location  *Location `yaml:"location"`
}

// Location pins a kiosk to fixed coordinates so the compass works without
// asking the browser.
type Location struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// AdminEnabled is false until a password hash is configured.
func (c *Config) AdminEnabled() bool { return c.AdminPassHash != "" }

// LoadEnv reads a .env file when one exists; real environment wins.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Msg("no .env file, using process environment")
		return
	}
	log.Info().Msg(".env file loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load reads configuration from environment variables, then overlays the
// locality file named by LOCALITY_FILE if set.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         GetEnv("APP_ENV", "development"),
		ServerAddress:  GetEnv("SERVER_ADDRESS", ":8080"),
		JWTSecret:      GetEnv("JWT_SECRET"),
		AdminUsername:  GetEnv("ADMIN_USERNAME", "admin"),
		AdminPassHash:  GetEnv("ADMIN_PASSWORD_HASH"),
		DatabaseURL:    GetEnv("DATABASE_URL"),
		MigrationsPath: GetEnv("MIGRATIONS_PATH", "./migrations"),

		RedisAddress:  GetEnv("REDIS_ADDRESS"),
		RedisUsername: GetEnv("REDIS_USERNAME"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),

		MQTTBrokerURL:   GetEnv("MQTT_BROKER_URL"),
		MQTTTopicPrefix: GetEnv("MQTT_TOPIC_PREFIX", "bpt/blackburn"),

		UploadDir:       GetEnv("UPLOAD_DIR", "./uploads"),
		UseSpaces:       getBool("USE_SPACES", false),
		SpacesEndpoint:  GetEnv("SPACES_ENDPOINT"),
		SpacesRegion:    GetEnv("SPACES_REGION"),
		SpacesBucket:    GetEnv("SPACES_BUCKET"),
		SpacesCDNURL:    GetEnv("SPACES_CDN_URL"),
		SpacesAccessKey: GetEnv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: GetEnv("SPACES_SECRET_KEY"),

		TimetableSource: strings.ToLower(GetEnv("TIMETABLE_SOURCE", "file")),
		TimetablePath:   GetEnv("TIMETABLE_PATH", "./blackburn_prayer_times.csv"),
		TimetableURL:    GetEnv("TIMETABLE_URL"),
		TimetableKey:    GetEnv("TIMETABLE_KEY", "timetable.csv"),
		WatchTimetable:  getBool("WATCH_TIMETABLE", true),

		Locality: Locality{
			Name:     GetEnv("LOCALITY_NAME", "Blackburn"),
			TimeZone: GetEnv("TIMEZONE", "Europe/London"),
		},
	}

	if path := GetEnv("LOCALITY_FILE"); path != "" {
		loc, err := LoadLocality(path)
		if err != nil {
			return nil, err
		}
		cfg.applyLocality(loc)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocality reads a YAML locality file.
func LoadLocality(path string) (*Locality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locality file: %w", err)
	}
	var loc Locality
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("parse locality file %s: %w", path, err)
	}
	return &loc, nil
}

func (c *Config) applyLocality(loc *Locality) {
	if loc.Name != "" {
		c.Locality.Name = loc.Name
	}
	if loc.TimeZone != "" {
		c.Locality.TimeZone = loc.TimeZone
	}
	if loc.Timetable != "" {
		c.Locality.Timetable = loc.Timetable
		c.TimetablePath = loc.Timetable
	}
	if loc.Location != nil {
		l := *loc.Location
		c.Locality.Location = &l
	}
}

func (c *Config) validate() error {
	var errs []error

	if _, err := time.LoadLocation(c.Locality.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Locality.TimeZone, err))
	}
	if c.AdminEnabled() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set"))
	}

	switch c.TimetableSource {
	case "file":
		if c.TimetablePath == "" {
			errs = append(errs, errors.New("TIMETABLE_PATH is required for the file source"))
		}
	case "http":
		if c.TimetableURL == "" {
			errs = append(errs, errors.New("TIMETABLE_URL is required for the http source"))
		}
	case "db":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the db source"))
		}
	case "storage":
	default:
		errs = append(errs, fmt.Errorf("TIMETABLE_SOURCE %q must be file, http, storage or db", c.TimetableSource))
	}

	if c.UseSpaces && (c.SpacesBucket == "" || c.SpacesEndpoint == "") {
		errs = append(errs, errors.New("SPACES_ENDPOINT and SPACES_BUCKET are required when USE_SPACES is true"))
	}
	if loc := c.Locality.Location; loc != nil {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			errs = append(errs, fmt.Errorf("locality location %v,%v is out of range", loc.Lat, loc.Lon))
		}
	}

	return errors.Join(errs...)
}
