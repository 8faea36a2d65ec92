package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IrshadAnsari05010/phishing-detector/internal/logging"
)

const (
	configPathEnv       = "PHISHGUARD_CONFIG"
	serverAddrEnv       = "SERVER_ADDR"
	ginModeEnv          = "GIN_MODE"
	corsOriginsEnv      = "CORS_ALLOWED_ORIGINS"
	logLevelEnv         = "LOG_LEVEL"
	logFormatEnv        = "LOG_FORMAT"
	modelURLEnv         = "MODEL_URL"
	modelAPIKeyEnv      = "MODEL_API_KEY"
	modelTimeoutEnv     = "MODEL_TIMEOUT"
	batchConcurrencyEnv = "BATCH_CONCURRENCY"
	kafkaBrokersEnv     = "KAFKA_BROKERS"
	kafkaTopicEnv       = "KAFKA_TOPIC"
	kafkaGroupIDEnv     = "KAFKA_GROUP_ID"
	esAddressesEnv      = "ELASTICSEARCH_ADDRESSES"
	esIndexEnv          = "ELASTICSEARCH_INDEX"
	esUsernameEnv       = "ELASTICSEARCH_USERNAME"
	esPasswordEnv       = "ELASTICSEARCH_PASSWORD"
	detectorAPIURLEnv   = "DETECTOR_API_URL"
	indexerURLEnv       = "ANALYSIS_INDEXER_URL"

	defaultKafkaTopic   = "phishguard.analyses"
	defaultKafkaGroup   = "analysis-indexer"
	defaultESIndex      = "phishguard-analyses"
	defaultModelTimeout = 10 * time.Second
)

// Config holds settings shared by every PhishGuard service. Each binary reads
// the sections it needs.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Logging       logging.Config      `yaml:"logging"`
	Model         ModelConfig         `yaml:"model"`
	Batch         BatchConfig         `yaml:"batch"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Gateway       GatewayConfig       `yaml:"gateway"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	GinMode        string   `yaml:"ginMode"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ListenAddr returns the configured address or the service default.
func (s ServerConfig) ListenAddr(fallback string) string {
	if s.Addr != "" {
		return s.Addr
	}
	return fallback
}

// ModelConfig points at an optional remote phishing model. An empty URL keeps
// scoring on the keyword heuristic.
type ModelConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether a remote model is configured.
func (m ModelConfig) Enabled() bool {
	return strings.TrimSpace(m.URL) != ""
}

// BatchConfig tunes batch classification.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// KafkaConfig describes the analysis event stream.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupId"`
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// ElasticsearchConfig describes the analysis store.
type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses"`
	Index     string   `yaml:"index"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

// GatewayConfig lists upstream service URLs.
type GatewayConfig struct {
	DetectorAPIURL string `yaml:"detectorApiUrl"`
	IndexerURL     string `yaml:"indexerUrl"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(ginModeEnv); v != "" {
		c.Server.GinMode = v
	}
	if v := splitList(os.Getenv(corsOriginsEnv)); len(v) > 0 {
		c.Server.AllowedOrigins = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(modelURLEnv); v != "" {
		c.Model.URL = v
	}
	if v := os.Getenv(modelAPIKeyEnv); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(modelTimeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Model.Timeout = d
		} else {
			log.Printf("config: invalid %s %q: %v", modelTimeoutEnv, v, err)
		}
	}

	if v := os.Getenv(batchConcurrencyEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Batch.Concurrency = n
		} else {
			log.Printf("config: invalid %s %q", batchConcurrencyEnv, v)
		}
	}

	if v := splitList(os.Getenv(kafkaBrokersEnv)); len(v) > 0 {
		c.Kafka.Brokers = v
	}
	if v := os.Getenv(kafkaTopicEnv); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv(kafkaGroupIDEnv); v != "" {
		c.Kafka.GroupID = v
	}

	if v := splitList(os.Getenv(esAddressesEnv)); len(v) > 0 {
		c.Elasticsearch.Addresses = v
	}
	if v := os.Getenv(esIndexEnv); v != "" {
		c.Elasticsearch.Index = v
	}
	if v := os.Getenv(esUsernameEnv); v != "" {
		c.Elasticsearch.Username = v
	}
	if v := os.Getenv(esPasswordEnv); v != "" {
		c.Elasticsearch.Password = v
	}

	if v := os.Getenv(detectorAPIURLEnv); v != "" {
		c.Gateway.DetectorAPIURL = v
	}
	if v := os.Getenv(indexerURLEnv); v != "" {
		c.Gateway.IndexerURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.GinMode != "" {
		base.Server.GinMode = override.Server.GinMode
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Model.URL != "" {
		base.Model.URL = override.Model.URL
	}
	if override.Model.APIKey != "" {
		base.Model.APIKey = override.Model.APIKey
	}
	if override.Model.Timeout > 0 {
		base.Model.Timeout = override.Model.Timeout
	}

	if override.Batch.Concurrency > 0 {
		base.Batch.Concurrency = override.Batch.Concurrency
	}

	if len(override.Kafka.Brokers) > 0 {
		base.Kafka.Brokers = override.Kafka.Brokers
	}
	if override.Kafka.Topic != "" {
		base.Kafka.Topic = override.Kafka.Topic
	}
	if override.Kafka.GroupID != "" {
		base.Kafka.GroupID = override.Kafka.GroupID
	}

	if len(override.Elasticsearch.Addresses) > 0 {
		base.Elasticsearch.Addresses = override.Elasticsearch.Addresses
	}
	if override.Elasticsearch.Index != "" {
		base.Elasticsearch.Index = override.Elasticsearch.Index
	}
	if override.Elasticsearch.Username != "" {
		base.Elasticsearch.Username = override.Elasticsearch.Username
	}
	if override.Elasticsearch.Password != "" {
		base.Elasticsearch.Password = override.Elasticsearch.Password
	}

	if override.Gateway.DetectorAPIURL != "" {
		base.Gateway.DetectorAPIURL = override.Gateway.DetectorAPIURL
	}
	if override.Gateway.IndexerURL != "" {
		base.Gateway.IndexerURL = override.Gateway.IndexerURL
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			GinMode:        "debug",
			AllowedOrigins: []string{"*"},
		},
		Logging: logging.Config{Level: "info", Format: "json"},
		Model:   ModelConfig{Timeout: defaultModelTimeout},
		Batch:   BatchConfig{Concurrency: 1},
		Kafka: KafkaConfig{
			Topic:   defaultKafkaTopic,
			GroupID: defaultKafkaGroup,
		},
		Elasticsearch: ElasticsearchConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     defaultESIndex,
		},
		Gateway: GatewayConfig{
			DetectorAPIURL: "http://localhost:8081",
			IndexerURL:     "http://localhost:8083",
		},
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
