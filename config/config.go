// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// NavdataURLsConfig holds the navdata publisher endpoints: the CSV downloads
// and the page carrying the AIRAC "Effective ... until ..." block.
type NavdataURLsConfig struct {
	WaypointsCSV           string `yaml:"waypoints_csv"`
	AirportsCSV            string `yaml:"airports_csv"`
	CycleEffectiveDatePage string `yaml:"cycle_effective_date_page"`
}

type LocalCSVPathsConfig struct {
	Waypoints string `yaml:"waypoints"`
	Airports  string `yaml:"airports"`
}

type DataFreshnessConfig struct {
	NavdataCheckIntervalStr string `yaml:"navdata_check_interval"`
	AiracCycleDays          int    `yaml:"airac_cycle_days"`
	NavdataCheckInterval    time.Duration // Parsed duration
}

type ScraperSelectorsConfig struct {
	CycleEffectiveDate string `yaml:"cycle_effective_date"`
}

// PirepConfig holds lifecycle tunables.
type PirepConfig struct {
	// DistanceMeasure selects the waypoint disambiguation distance:
	// "flat" (default) or "greatcircle".
	DistanceMeasure string `yaml:"distance_measure"`
}

type NatsConfig struct {
	// URL of the NATS server the domain events are published to.
	// Leave empty to run without an event bus.
	URL string `yaml:"url"`
}

type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Database         DatabaseConfig         `yaml:"database"`
	NavdataURLs      NavdataURLsConfig      `yaml:"navdata_urls"`
	LocalCSVPaths    LocalCSVPathsConfig    `yaml:"local_csv_paths"`
	DataFreshness    DataFreshnessConfig    `yaml:"data_freshness"`
	ScraperSelectors ScraperSelectorsConfig `yaml:"scraper_selectors"`
	Pirep            PirepConfig            `yaml:"pirep"`
	Nats             NatsConfig             `yaml:"nats"`
}

var AppConfig Config

// LoadConfig reads configuration from the yaml file at configPath, then
// overlays secrets from the environment (main loads a .env file before this
// runs). Environment always wins for credentials so deployments never need
// passwords sitting in config.yaml.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(file, &AppConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overlay for credentials and the event bus.
	if v := os.Getenv("DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		AppConfig.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		AppConfig.Database.DBName = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		AppConfig.Nats.URL = v
	}

	// Parse durations
	if AppConfig.DataFreshness.NavdataCheckIntervalStr != "" {
		AppConfig.DataFreshness.NavdataCheckInterval, err = time.ParseDuration(AppConfig.DataFreshness.NavdataCheckIntervalStr)
		if err != nil {
			return fmt.Errorf("failed to parse NavdataCheckInterval: %w", err)
		}
	} else {
		AppConfig.DataFreshness.NavdataCheckInterval = 24 * time.Hour // Default
	}
	if AppConfig.DataFreshness.AiracCycleDays == 0 {
		AppConfig.DataFreshness.AiracCycleDays = 28 // Standard AIRAC cycle
	}

	// Create temp_data directories for the local CSV paths if needed.
	if AppConfig.LocalCSVPaths.Waypoints != "" {
		if err := os.MkdirAll(filepath.Dir(AppConfig.LocalCSVPaths.Waypoints), 0755); err != nil {
			return fmt.Errorf("failed to create directory for waypoints CSV: %w", err)
		}
	}
	if AppConfig.LocalCSVPaths.Airports != "" {
		if err := os.MkdirAll(filepath.Dir(AppConfig.LocalCSVPaths.Airports), 0755); err != nil {
			return fmt.Errorf("failed to create directory for airports CSV: %w", err)
		}
	}

	return nil
}
