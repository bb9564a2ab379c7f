package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`

	Sources  SourcesConfig  `mapstructure:"sources"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Loop     LoopConfig     `mapstructure:"loop"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// Committed events older than this are pruned by the maintenance job.
	Retention time.Duration `mapstructure:"retention"`
}

type SourcesConfig struct {
	Timeout time.Duration      `mapstructure:"timeout"`
	Feed    FeedSourceConfig   `mapstructure:"feed"`
	Social  SocialSourceConfig `mapstructure:"social"`
	NewsAPI AggregatorConfig   `mapstructure:"newsapi"`
	Finnhub AggregatorConfig   `mapstructure:"finnhub"`
	Polygon AggregatorConfig   `mapstructure:"polygon"`
}

type FeedSourceConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URLs    []string      `mapstructure:"urls"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

type SocialSourceConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Endpoint   string        `mapstructure:"endpoint"`
	TokenEnv   string        `mapstructure:"token_env"`
	Accounts   []string      `mapstructure:"accounts"`
	PostLimit  int           `mapstructure:"post_limit"`
	MinBackoff time.Duration `mapstructure:"min_backoff"`
}

type AggregatorConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	PageSize  int    `mapstructure:"page_size"`
}

type OracleConfig struct {
	Primary        ProviderConfig `mapstructure:"primary"`
	Fallback       ProviderConfig `mapstructure:"fallback"`
	Timeout        time.Duration  `mapstructure:"timeout"`
	RequestsPerMin int            `mapstructure:"requests_per_min"`
}

type ProviderConfig struct {
	Model     string `mapstructure:"model"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

type PipelineConfig struct {
	ConfidenceThreshold int `mapstructure:"confidence_threshold"`
	ClassifyConcurrency int `mapstructure:"classify_concurrency"`
}

type BrokerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKeyEnv    string        `mapstructure:"api_key_env"`
	APISecretEnv string        `mapstructure:"api_secret_env"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// Account-currency to USD rate applied before contract quantity sizing.
	FXRate float64 `mapstructure:"fx_rate"`
}

type NotifyConfig struct {
	TokenEnv  string        `mapstructure:"token_env"`
	ChatIDEnv string        `mapstructure:"chat_id_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LoopConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	HeartbeatEvery int           `mapstructure:"heartbeat_every"`
	Capital        float64       `mapstructure:"capital"`
	MaxPositionPct float64       `mapstructure:"max_position_pct"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.path", "events.db")
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.retention", "2160h")

	v.SetDefault("sources.timeout", "20s")
	v.SetDefault("sources.feed.enabled", true)
	v.SetDefault("sources.feed.max_age", "1h")
	v.SetDefault("sources.social.enabled", false)
	v.SetDefault("sources.social.token_env", "SOCIAL_API_TOKEN")
	v.SetDefault("sources.social.post_limit", 5)
	v.SetDefault("sources.social.min_backoff", "30s")
	v.SetDefault("sources.newsapi.enabled", false)
	v.SetDefault("sources.newsapi.endpoint", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("sources.newsapi.api_key_env", "NEWS_API_KEY")
	v.SetDefault("sources.newsapi.page_size", 10)
	v.SetDefault("sources.finnhub.enabled", false)
	v.SetDefault("sources.finnhub.endpoint", "https://finnhub.io/api/v1/news")
	v.SetDefault("sources.finnhub.api_key_env", "FINNHUB_API_KEY")
	v.SetDefault("sources.polygon.enabled", false)
	v.SetDefault("sources.polygon.endpoint", "https://api.polygon.io/v2/reference/news")
	v.SetDefault("sources.polygon.api_key_env", "POLYGON_API_KEY")
	v.SetDefault("sources.polygon.page_size", 10)

	v.SetDefault("oracle.primary.model", "gpt-4o-mini")
	v.SetDefault("oracle.primary.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("oracle.fallback.model", "gemini-1.5-flash")
	v.SetDefault("oracle.fallback.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("oracle.timeout", "30s")
	v.SetDefault("oracle.requests_per_min", 60)

	v.SetDefault("pipeline.confidence_threshold", 80)
	v.SetDefault("pipeline.classify_concurrency", 4)

	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.base_url", "https://paper-api.alpaca.markets")
	v.SetDefault("broker.api_key_env", "ALPACA_API_KEY")
	v.SetDefault("broker.api_secret_env", "ALPACA_SECRET_KEY")
	v.SetDefault("broker.timeout", "15s")
	v.SetDefault("broker.fx_rate", 1.08)

	v.SetDefault("notify.token_env", "TELEGRAM_BOT_TOKEN")
	v.SetDefault("notify.chat_id_env", "TELEGRAM_CHAT_ID")
	v.SetDefault("notify.timeout", "10s")

	v.SetDefault("loop.interval", "600s")
	v.SetDefault("loop.heartbeat_every", 6)
	v.SetDefault("loop.capital", 1000)
	v.SetDefault("loop.max_position_pct", 0.05)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
