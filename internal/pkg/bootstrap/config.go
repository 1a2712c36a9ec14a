// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置根结构。
// 来源优先级：环境变量 > 配置文件 > 默认值。
type Config struct {
	App   AppConfig   `yaml:"app"`
	Infra InfraConfig `yaml:"infra"`
}

type AppConfig struct {
	CheckoutPort     int           `yaml:"checkoutPort"`
	CatalogPort      int           `yaml:"catalogPort"`
	NotificationPort int           `yaml:"notificationPort"`
	Gateway          GatewayConfig `yaml:"gateway"`
}

// GatewayConfig 描述外部支付网关（沙箱）的接入参数。
// 私钥只允许通过环境变量注入，不落盘。
type GatewayConfig struct {
	Endpoint   string `yaml:"endpoint"`
	MerchantID string `yaml:"merchantId"`
	PublicKey  string `yaml:"publicKey"`
	PrivateKey string `yaml:"-"`
}

type InfraConfig struct {
	Mongo  MongoConfig  `yaml:"mongo"`
	Mysql  MysqlConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Jaeger JaegerConfig `yaml:"jaeger"`
	Nacos  NacosConfig  `yaml:"nacos"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MysqlConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addrs string `yaml:"addrs"`
}

type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// NacosConfig 为空时跳过服务注册，单机部署不需要注册中心。
type NacosConfig struct {
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

var currentConfig *Config

// Init 加载配置文件并应用环境变量覆盖。必须在 StartService 之前调用。
func Init() {
	path := getEnv("CONFIG_FILE", "config/config.yaml")

	cfg := defaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(fmt.Sprintf("FATAL: cannot parse config file %s: %v", path, err))
		}
	}

	// 环境变量覆盖，便于容器化部署
	cfg.Infra.Mongo.URI = getEnv("MONGO_URI", cfg.Infra.Mongo.URI)
	cfg.Infra.Mongo.Database = getEnv("MONGO_DATABASE", cfg.Infra.Mongo.Database)
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.App.Gateway.Endpoint = getEnv("GATEWAY_ENDPOINT", cfg.App.Gateway.Endpoint)
	cfg.App.Gateway.MerchantID = getEnv("GATEWAY_MERCHANT_ID", cfg.App.Gateway.MerchantID)
	cfg.App.Gateway.PublicKey = getEnv("GATEWAY_PUBLIC_KEY", cfg.App.Gateway.PublicKey)
	cfg.App.Gateway.PrivateKey = getEnv("GATEWAY_PRIVATE_KEY", "")

	currentConfig = cfg
}

// GetCurrentConfig 返回进程级配置。Init 未调用时返回默认值，方便测试。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		currentConfig = defaultConfig()
	}
	return currentConfig
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			CheckoutPort:     8080,
			CatalogPort:      8081,
			NotificationPort: 8082,
			Gateway: GatewayConfig{
				Endpoint: "http://localhost:9099",
			},
		},
		Infra: InfraConfig{
			Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "storefront"},
			Mysql:  MysqlConfig{DSN: "root:root@tcp(localhost:3306)/storefront?parseTime=true"},
			Redis:  RedisConfig{Addrs: "localhost:6379"},
			Kafka:  KafkaConfig{Brokers: "localhost:9092"},
			Jaeger: JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Nacos:  NacosConfig{Group: "DEFAULT_GROUP"},
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
