// Package config loads the server's settings from defaults and the
// environment. cmd/server reads the Server settings and Limits.MaxGames;
// the Sim and Net values and the other limits are not read by the
// simulation, estimators or runners, which use their own package
// constants.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the shared simulation's fixed-rate and map settings.
type SimConfig struct {
	TicksPerSecond int
	MapWidth       float64
	MapHeight      float64
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TicksPerSecond: 30,
		MapWidth:       4000,
		MapHeight:      4000,
	}
}

// SimFromEnv returns simulation configuration with environment
// variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tps := getEnvInt("SIM_TICKS_PER_SECOND", 0); tps > 0 {
		cfg.TicksPerSecond = tps
	}
	if w := getEnvFloat("SIM_MAP_WIDTH", 0); w > 0 {
		cfg.MapWidth = w
	}
	if h := getEnvFloat("SIM_MAP_HEIGHT", 0); h > 0 {
		cfg.MapHeight = h
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and per-process capacity.
type ResourceLimits struct {
	MaxGames         int // hard cap on concurrently running games
	MaxPlayersPerGame int
	MaxEntitiesPerGame int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxGames:           1000,
		MaxPlayersPerGame:  16,
		MaxEntitiesPerGame: 512,
	}
}

// LimitsFromEnv returns resource limits with environment overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if v := getEnvInt("MAX_GAMES", 0); v > 0 {
		cfg.MaxGames = v
	}
	if v := getEnvInt("MAX_PLAYERS_PER_GAME", 0); v > 0 {
		cfg.MaxPlayersPerGame = v
	}
	if v := getEnvInt("MAX_ENTITIES_PER_GAME", 0); v > 0 {
		cfg.MaxEntitiesPerGame = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the HTTP front-end's settings (spec.md §6's CLI).
type ServerConfig struct {
	HTTPAddress string // --http_address; required, no default
	ClntDir     string // --clnt_dir
	UDPAddress  string // --udp_address; the unreliable transport's listen addr
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		ClntDir:    "clnt",
		UDPAddress: ":9001",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
// CLI flags (see cmd/server/main.go) take precedence over these.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if addr := os.Getenv("HTTP_ADDRESS"); addr != "" {
		cfg.HTTPAddress = addr
	}
	if dir := os.Getenv("CLNT_DIR"); dir != "" {
		cfg.ClntDir = dir
	}
	if addr := os.Getenv("UDP_ADDRESS"); addr != "" {
		cfg.UDPAddress = addr
	}

	return cfg
}

// =============================================================================
// NETWORK / TIME-ESTIMATOR CONFIGURATION
// =============================================================================

// NetConfig holds the tunables for the ping/receive-time/loss
// estimators and the client playback clock (spec.md §4.3, §4.4).
type NetConfig struct {
	PingPeriod           time.Duration
	PingTimeout          time.Duration
	SampleDuration       time.Duration
	KeepStatesBuffer     int
	MaxTicksPerUpdate    int
	MaxTimeLagDeviation  time.Duration
	TargetTimeLagFactor  float64
}

// DefaultNet returns the default network configuration.
func DefaultNet() NetConfig {
	return NetConfig{
		PingPeriod:          1 * time.Second,
		PingTimeout:         10 * time.Second,
		SampleDuration:      2 * time.Second,
		KeepStatesBuffer:    5,
		MaxTicksPerUpdate:   5,
		MaxTimeLagDeviation: 75 * time.Millisecond,
		TargetTimeLagFactor: 1.5,
	}
}

// NetFromEnv returns network configuration with environment overrides.
func NetFromEnv() NetConfig {
	cfg := DefaultNet()

	if v := getEnvInt("PING_TIMEOUT_MS", 0); v > 0 {
		cfg.PingTimeout = time.Duration(v) * time.Millisecond
	}
	if v := getEnvInt("KEEP_STATES_BUFFER", 0); v > 0 {
		cfg.KeepStatesBuffer = v
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Limits ResourceLimits
	Server ServerConfig
	Net    NetConfig
}

// Load returns the complete configuration with environment overrides.
// cmd/server/main.go loads a .env file (via joho/godotenv) before
// calling this, so os.Getenv sees both shell and .env-file values.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Limits: LimitsFromEnv(),
		Server: ServerFromEnv(),
		Net:    NetFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
