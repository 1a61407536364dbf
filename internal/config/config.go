package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// IndexerConfig holds the NFT indexer API configuration
type IndexerConfig struct {
	URL              string        `mapstructure:"url"`
	APIKey           string        `mapstructure:"api_key"`
	PageSize         int           `mapstructure:"page_size"`
	TransferPageCap  int           `mapstructure:"transfer_page_cap"`
	TokenPageCap     int           `mapstructure:"token_page_cap"`
	BalancesPageSize int           `mapstructure:"balances_page_size"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// DelegationConfig holds delegation resolution configuration
type DelegationConfig struct {
	CustodianAddress string   `mapstructure:"custodian_address"`
	ImageURLTemplate string   `mapstructure:"image_url_template"`
	PlaceholderName  string   `mapstructure:"placeholder_name"`
	PlaceholderURI   string   `mapstructure:"placeholder_uri"`
	Contracts        []string `mapstructure:"contracts"`
	WorkerPoolSize   int      `mapstructure:"worker_pool_size"`
}

// EthereumConfig holds Ethereum-specific configuration
type EthereumConfig struct {
	RPCURL                 string        `mapstructure:"rpc_url"`
	VestingContractAddress string        `mapstructure:"vesting_contract_address"`
	TokenDecimals          int32         `mapstructure:"token_decimals"`
	CallSpacing            time.Duration `mapstructure:"call_spacing"`
	CallTimeout            time.Duration `mapstructure:"call_timeout"`
}

// SubgraphConfig holds the GraphQL subgraph configuration
type SubgraphConfig struct {
	URL                 string `mapstructure:"url"`
	ChunkSize           int    `mapstructure:"chunk_size"`
	MaxConcurrentChunks int    `mapstructure:"max_concurrent_chunks"`
	TokenDecimals       int32  `mapstructure:"token_decimals"`
}

// CacheConfig holds the claim cache backend configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// QueueConfig holds the adaptive request queue configuration
type QueueConfig struct {
	InitialConcurrency int           `mapstructure:"initial_concurrency"`
	MinConcurrency     int           `mapstructure:"min_concurrency"`
	MaxConcurrency     int           `mapstructure:"max_concurrency"`
	MinSpacing         time.Duration `mapstructure:"min_spacing"`
	BaseBackoff        time.Duration `mapstructure:"base_backoff"`
	MaxBackoff         time.Duration `mapstructure:"max_backoff"`
	RecoveryInterval   time.Duration `mapstructure:"recovery_interval"`
}

// ClaimsConfig holds the claim data aggregation configuration
type ClaimsConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBase      time.Duration `mapstructure:"retry_base"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`
}

// VestingConfig holds the milestone calendar configuration
type VestingConfig struct {
	MilestoneDates []string `mapstructure:"milestone_dates"`
}

// ReconcilerConfig holds everything both pipelines need
type ReconcilerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Indexer    IndexerConfig    `mapstructure:"indexer"`
	Delegation DelegationConfig `mapstructure:"delegation"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Subgraph   SubgraphConfig   `mapstructure:"subgraph"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Claims     ClaimsConfig     `mapstructure:"claims"`
	Vesting    VestingConfig    `mapstructure:"vesting"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	ReconcilerConfig `mapstructure:",squash"`
	Server           ServerConfig `mapstructure:"server"`
	Auth             AuthConfig   `mapstructure:"auth"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setReconcilerDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for the reconcile CLI
func LoadCLIConfig(configFile string, envPath string) (*ReconcilerConfig, error) {
	v := configureViper("reconcile-cli", configFile, envPath)

	setReconcilerDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg ReconcilerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required fields
func (c *ReconcilerConfig) Validate() error {
	if c.Indexer.URL == "" {
		return errors.New("indexer.url is required")
	}
	if c.Delegation.CustodianAddress == "" {
		return errors.New("delegation.custodian_address is required")
	}
	if c.Queue.MinConcurrency > c.Queue.MaxConcurrency {
		return errors.New("queue.min_concurrency must not exceed queue.max_concurrency")
	}
	if c.Cache.Enabled && c.Cache.URL == "" {
		return errors.New("cache.url is required when cache is enabled")
	}
	return nil
}

// MilestoneTimes parses the configured milestone dates (YYYY-MM-DD, UTC)
func (c *VestingConfig) MilestoneTimes() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.MilestoneDates))
	for _, s := range c.MilestoneDates {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("invalid milestone date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// setReconcilerDefaults sets defaults shared by every binary
func setReconcilerDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("indexer.page_size", 100)
	v.SetDefault("indexer.transfer_page_cap", 20)
	v.SetDefault("indexer.token_page_cap", 50)
	v.SetDefault("indexer.balances_page_size", 200)
	v.SetDefault("indexer.timeout", "30s")
	v.SetDefault("delegation.image_url_template", "https://assets.feralfile.com/nft/%s.png")
	v.SetDefault("delegation.placeholder_name", "Delegated NFT #%s")
	v.SetDefault("delegation.placeholder_uri", "")
	v.SetDefault("delegation.worker_pool_size", 8)
	v.SetDefault("ethereum.token_decimals", 18)
	v.SetDefault("ethereum.call_spacing", "100ms")
	v.SetDefault("ethereum.call_timeout", "30s")
	v.SetDefault("subgraph.chunk_size", 2000)
	v.SetDefault("subgraph.max_concurrent_chunks", 16)
	v.SetDefault("subgraph.token_decimals", 18)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("queue.initial_concurrency", 8)
	v.SetDefault("queue.min_concurrency", 3)
	v.SetDefault("queue.max_concurrency", 8)
	v.SetDefault("queue.min_spacing", "50ms")
	v.SetDefault("queue.base_backoff", "1s")
	v.SetDefault("queue.max_backoff", "10s")
	v.SetDefault("queue.recovery_interval", "5s")
	v.SetDefault("claims.max_attempts", 3)
	v.SetDefault("claims.retry_base", "1s")
	v.SetDefault("claims.worker_pool_size", 16)
}

// readConfig reads the config file, tolerating its absence
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_RECONCILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Indexer
		"indexer.url",
		"indexer.api_key",
		"indexer.page_size",
		"indexer.transfer_page_cap",
		"indexer.token_page_cap",
		"indexer.balances_page_size",
		"indexer.timeout",
		// Delegation
		"delegation.custodian_address",
		"delegation.image_url_template",
		"delegation.placeholder_name",
		"delegation.placeholder_uri",
		"delegation.contracts",
		"delegation.worker_pool_size",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.vesting_contract_address",
		"ethereum.token_decimals",
		"ethereum.call_spacing",
		"ethereum.call_timeout",
		// Subgraph
		"subgraph.url",
		"subgraph.chunk_size",
		"subgraph.max_concurrent_chunks",
		"subgraph.token_decimals",
		// Cache
		"cache.enabled",
		"cache.url",
		"cache.api_key",
		// Queue
		"queue.initial_concurrency",
		"queue.min_concurrency",
		"queue.max_concurrency",
		"queue.min_spacing",
		"queue.base_backoff",
		"queue.max_backoff",
		"queue.recovery_interval",
		// Claims
		"claims.max_attempts",
		"claims.retry_base",
		"claims.worker_pool_size",
		// Vesting
		"vesting.milestone_dates",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
