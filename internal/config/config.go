package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/validator"
)

type DashboardConfig struct {
	ServerAddr     string           `validate:"required"`
	FleetAPIURL    string           `validate:"required,url"`
	RequestTimeout time.Duration    `validate:"gt=0"`
	Resume         poll.ResumePolicy `validate:"oneof=refetch schedule"`
	// CoalesceFeeds shares node-scoped sessions between views focused on
	// the same node.
	CoalesceFeeds bool
	LogLimit      int `validate:"gt=0,lte=5000"`

	// Redis is optional; an empty host leaves visibility under local
	// control only.
	RedisHost         string
	RedisPort         int `validate:"gt=0,lte=65535"`
	RedisPassword     string
	RedisDB           int `validate:"gte=0"`
	VisibilityChannel string `validate:"required"`

	FeedsFile string
	Feeds     map[string]FeedOverride `validate:"-"`
}

type MockAPIConfig struct {
	ServerAddr   string `validate:"required"`
	DatabasePath string
	SeedNodes    int `validate:"gte=0,lte=500"`
	// Heartbeat is how often node metrics and events are refreshed; 0 disables it
	Heartbeat time.Duration `validate:"gte=0"`
}

// RedisEnabled reports whether a redis visibility source was configured
func (c *DashboardConfig) RedisEnabled() bool {
	return c.RedisHost != ""
}

// DashboardOverrides carries command-line values that win over the
// environment. Empty fields leave the environment value in place.
type DashboardOverrides struct {
	Addr        string
	FleetAPIURL string
	FeedsFile   string
}

func (o DashboardOverrides) apply(cfg *DashboardConfig) {
	if o.Addr != "" {
		cfg.ServerAddr = o.Addr
	}
	if o.FleetAPIURL != "" {
		cfg.FleetAPIURL = o.FleetAPIURL
	}
	if o.FeedsFile != "" {
		cfg.FeedsFile = o.FeedsFile
	}
}

// LoadDashboardConfig reads dashboard config from environment or returns defaults
func LoadDashboardConfig() (*DashboardConfig, error) {
	return LoadDashboardConfigWith(DashboardOverrides{})
}

// LoadDashboardConfigWith reads dashboard config from environment, then
// applies o before the feeds file is loaded and the result validated.
func LoadDashboardConfigWith(o DashboardOverrides) (*DashboardConfig, error) {
	reqTimeout := 10 * time.Second
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			reqTimeout = time.Duration(i) * time.Second
		}
	}

	logLimit := 200
	if v := os.Getenv("LOG_LIMIT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			logLimit = i
		}
	}

	redisPort := 6379
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			redisPort = i
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			redisDB = i
		}
	}

	coalesce := false
	if v := os.Getenv("COALESCE_FEEDS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			coalesce = b
		}
	}

	cfg := &DashboardConfig{
		ServerAddr:        envOrDefault("DASHBOARD_ADDR", ":8090"),
		FleetAPIURL:       envOrDefault("FLEET_API_URL", "http://localhost:8081/api"),
		RequestTimeout:    reqTimeout,
		Resume:            poll.ResumePolicy(envOrDefault("VISIBILITY_RESUME", string(poll.ResumeRefetch))),
		CoalesceFeeds:     coalesce,
		LogLimit:          logLimit,
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         redisPort,
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		VisibilityChannel: envOrDefault("VISIBILITY_CHANNEL", "dashboard:visibility"),
		FeedsFile:         os.Getenv("FEEDS_FILE"),
	}
	o.apply(cfg)

	if err := cfg.LoadFeeds(); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid dashboard config: %w", err)
	}
	return cfg, nil
}

// LoadMockAPIConfig reads mock API config from environment or returns defaults
func LoadMockAPIConfig() (*MockAPIConfig, error) {
	seed := 6
	if v := os.Getenv("SEED_NODES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			seed = i
		}
	}

	heartbeat := 5 * time.Second
	if v := os.Getenv("HEARTBEAT_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			heartbeat = time.Duration(i) * time.Second
		}
	}

	cfg := &MockAPIConfig{
		ServerAddr:   envOrDefault("MOCKAPI_ADDR", ":8081"),
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/fleet.db"),
		SeedNodes:    seed,
		Heartbeat:    heartbeat,
	}
	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid mock api config: %w", err)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
