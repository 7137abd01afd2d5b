package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Feed       FeedConfig       `yaml:"feed"`
	Rooms      RoomsConfig      `yaml:"rooms"`
	Tariffs    TariffsConfig    `yaml:"tariffs"`
	Stay       StayConfig       `yaml:"stay"`
	Booking    BookingConfig    `yaml:"booking"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// FeedConfig holds the upstream calendar feed configuration.
type FeedConfig struct {
	URL             string            `yaml:"url"`
	Headers         map[string]string `yaml:"headers"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	RefreshSeconds  int               `yaml:"refresh_seconds"`
	RefreshInterval time.Duration     `yaml:"-"` // Ignored by YAML parser
	Timezone        string            `yaml:"timezone"`
}

// RoomsConfig holds the reservation-summary parsing rules. The upstream
// calendar convention has changed more than once, so the marker and the
// code table are configuration rather than code.
type RoomsConfig struct {
	ReservationMarker string            `yaml:"reservation_marker"`
	Codes             map[string]string `yaml:"codes"`
}

// TariffRow is the price row for one occupancy level of a room.
type TariffRow struct {
	OneNight   int `yaml:"one_night"`
	TwoNights  int `yaml:"two_nights"`
	ExtraNight int `yaml:"extra_night"`
}

// TariffsConfig maps a room name to its per-occupancy price rows,
// indexed by occupancy minus one.
type TariffsConfig map[string][]TariffRow

// StayConfig holds the minimum-stay rule.
type StayConfig struct {
	HighSeasonMonths []int `yaml:"high_season_months"`
	HighSeasonNights int   `yaml:"high_season_nights"`
	DefaultNights    int   `yaml:"default_nights"`
}

// BookingConfig holds the upstream booking submission configuration.
type BookingConfig struct {
	SubmitURL      string            `yaml:"submit_url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// PushConfig holds the VAPID keys for owner web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// DefaultRoomCodes is the summary-code table used when the config does not
// override it. Two-letter codes appear in RESA summaries after the marker.
var DefaultRoomCodes = map[string]string{
	"LC": "LADY CHATTERLEY",
	"HM": "HENRY DE MONFREID",
	"NP": "NAPOLÉON",
}

// DefaultTariffs mirrors the guesthouse rate card: the first two nights are
// a package rate, every extra night adds a flat increment.
var DefaultTariffs = TariffsConfig{
	"HENRY DE MONFREID": {
		{OneNight: 220, TwoNights: 220, ExtraNight: 100},
		{OneNight: 250, TwoNights: 250, ExtraNight: 110},
	},
	"NAPOLÉON": {
		{OneNight: 200, TwoNights: 200, ExtraNight: 90},
		{OneNight: 230, TwoNights: 230, ExtraNight: 100},
	},
	"LADY CHATTERLEY": {
		{OneNight: 220, TwoNights: 220, ExtraNight: 100},
		{OneNight: 250, TwoNights: 250, ExtraNight: 110},
		{OneNight: 300, TwoNights: 300, ExtraNight: 120},
	},
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Feed.TimeoutSeconds <= 0 {
		cfg.Feed.TimeoutSeconds = 30
	}
	if cfg.Feed.RefreshSeconds <= 0 {
		cfg.Feed.RefreshSeconds = 300
	}
	cfg.Feed.RefreshInterval = time.Duration(cfg.Feed.RefreshSeconds) * time.Second
	if cfg.Feed.Timezone == "" {
		cfg.Feed.Timezone = "Europe/Paris"
	}

	if cfg.Rooms.ReservationMarker == "" {
		cfg.Rooms.ReservationMarker = "RESA"
	}
	if len(cfg.Rooms.Codes) == 0 {
		cfg.Rooms.Codes = DefaultRoomCodes
	}

	if len(cfg.Tariffs) == 0 {
		cfg.Tariffs = DefaultTariffs
	}

	if len(cfg.Stay.HighSeasonMonths) == 0 {
		cfg.Stay.HighSeasonMonths = []int{7, 8}
	}
	if cfg.Stay.HighSeasonNights <= 0 {
		cfg.Stay.HighSeasonNights = 2
	}
	if cfg.Stay.DefaultNights <= 0 {
		cfg.Stay.DefaultNights = 1
	}

	if cfg.Booking.TimeoutSeconds <= 0 {
		cfg.Booking.TimeoutSeconds = 30
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
