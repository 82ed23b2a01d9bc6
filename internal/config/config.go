package config

import (
	"aimtrainer/internal/round"
	"aimtrainer/internal/targets"
	"aimtrainer/internal/utility"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string  `yaml:"port"`
	DatabaseURL string  `yaml:"database_url"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FPS         int     `yaml:"fps"`
	Targets     int     `yaml:"targets"`
	Lives       int     `yaml:"lives"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Seed        uint64  `yaml:"seed"` // 0 picks a time-based seed
	Sound       bool    `yaml:"sound"`
}

func Defaults() Config {
	return Config{
		Port:     "8080",
		Width:    800,
		Height:   600,
		FPS:      60,
		Targets:  5,
		Lives:    10,
		MaxSpeed: 5,
		Sound:    true,
	}
}

// Load starts from the defaults, applies the YAML file named by AIM_CONFIG if
// there is one, then lets environment variables override both.
func Load() Config {
	cfg := Defaults()
	if path := os.Getenv("AIM_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path, cfg)
		if err != nil {
			log.Printf("[Config] %v (using defaults)\n", err)
		} else {
			cfg = fileCfg
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.Width = getEnvInt("AIM_WIDTH", cfg.Width)
	cfg.Height = getEnvInt("AIM_HEIGHT", cfg.Height)
	cfg.FPS = getEnvInt("AIM_FPS", cfg.FPS)
	cfg.Targets = getEnvInt("AIM_TARGETS", cfg.Targets)
	cfg.Lives = getEnvInt("AIM_LIVES", cfg.Lives)
	cfg.MaxSpeed = getEnvFloat("AIM_MAX_SPEED", cfg.MaxSpeed)
	cfg.Seed = uint64(getEnvInt("AIM_SEED", int(cfg.Seed)))
	cfg.Sound = getEnvBool("AIM_SOUND", cfg.Sound)
	return cfg.withFallbacks()
}

// withFallbacks swaps any value no game could run with for its default.
func (c Config) withFallbacks() Config {
	def := Defaults()
	minSide := int(2 * targets.Large.Radius())

	if c.Width < minSide {
		log.Printf("[Config] width %d below %d, using %d\n", c.Width, minSide, def.Width)
		c.Width = def.Width
	}
	if c.Height < minSide {
		log.Printf("[Config] height %d below %d, using %d\n", c.Height, minSide, def.Height)
		c.Height = def.Height
	}
	if c.FPS <= 0 {
		log.Printf("[Config] fps %d not positive, using %d\n", c.FPS, def.FPS)
		c.FPS = def.FPS
	}
	if c.Targets <= 0 {
		log.Printf("[Config] targets %d not positive, using %d\n", c.Targets, def.Targets)
		c.Targets = def.Targets
	}
	if c.Lives <= 0 {
		log.Printf("[Config] lives %d not positive, using %d\n", c.Lives, def.Lives)
		c.Lives = def.Lives
	}
	if c.MaxSpeed < 0 {
		log.Printf("[Config] max speed %v negative, using %v\n", c.MaxSpeed, def.MaxSpeed)
		c.MaxSpeed = def.MaxSpeed
	}
	return c
}

// LoadFile overlays the keys present in the YAML file at path onto base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Game() round.Config {
	return round.Config{
		Width:       float64(c.Width),
		Height:      float64(c.Height),
		TargetCount: c.Targets,
		Lives:       c.Lives,
		MaxSpeed:    c.MaxSpeed,
	}
}

// Check reports why c cannot drive a game, or nil.
func (c Config) Check() error {
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps %d must be positive", c.FPS)
	}
	return c.Game().Check()
}

// Rand returns the random source for a new session. A zero seed is replaced
// by the current time so separate sessions differ.
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return utility.NewRand(seed)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
