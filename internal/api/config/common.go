package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Instagram InstagramConfig `mapstructure:"instagram"`
	Sync      SyncConfig      `mapstructure:"sync"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// AppURL 仪表盘地址，OAuth 回调完成后 302 跳转目标
	AppURL string `mapstructure:"app_url"`
	// CronSecret 定时同步端点的共享密钥
	CronSecret string `mapstructure:"cron_secret"`
	// StateSecret OAuth state 签名密钥
	StateSecret string `mapstructure:"state_secret"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// UpstreamConfig ScrapeCreators 聚合 API 配置
type UpstreamConfig struct {
	BaseURL         string  `mapstructure:"base_url"`
	ApiKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
	RatePerSecond   float64 `mapstructure:"rate_per_second"`
	YoutubeMaxPages int     `mapstructure:"youtube_max_pages"`
	TiktokMaxPages  int     `mapstructure:"tiktok_max_pages"`
}

// InstagramConfig Instagram Graph API 配置
type InstagramConfig struct {
	GraphBaseURL string `mapstructure:"graph_base_url"`
	OAuthBaseURL string `mapstructure:"oauth_base_url"`
	AppID        string `mapstructure:"app_id"`
	AppSecret    string `mapstructure:"app_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// SyncConfig 同步与缓存参数
type SyncConfig struct {
	// CacheTTLHours 快照缓存有效期（小时），到期后常规加载会触发重新拉取
	CacheTTLHours int `mapstructure:"cache_ttl_hours"`
	// FullFetchIntervalHours 距上次全量拉取超过该阈值则重新全量拉取
	FullFetchIntervalHours int `mapstructure:"full_fetch_interval_hours"`
	// SweepDelayMs 批量同步时每个频道之间的间隔，规避上游限流
	SweepDelayMs int `mapstructure:"sweep_delay_ms"`
}

// MinIOConfig MinIO配置，留空 endpoint 时关闭头像镜像
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}
