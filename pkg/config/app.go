package config

import (
	"log"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration shared by all binaries.
type Config struct {
	DB            DBConfig            `yaml:"db"`
	MQ            MQConfig            `yaml:"mq"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Server        ServerConfig        `yaml:"server"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	MessageSource MessageSourceConfig `yaml:"message_source"`
}

// Load reads layered YAML config (base.yaml plus CONFIG_ENV overlay and
// secrets substitution) from CONFIG_DIR and applies environment variable
// overrides on top. Exits on a broken config file, there is no useful way
// to continue without one.
func Load() *Config {
	raw, err := LoadConfig(GetConfigEnv(), GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		log.Fatalf("failed to re-encode config: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	OverrideDBFromEnv(&cfg.DB)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideRedisFromEnv(&cfg.Redis)
	OverrideJWTFromEnv(&cfg.JWT)
	OverrideServerFromEnv(&cfg.Server)
	OverrideOpenAIFromEnv(&cfg.OpenAI)
	OverrideMessageSourceFromEnv(&cfg.MessageSource)

	return &cfg
}
