package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config armazena todas as configurações do serviço GoWMS.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	TablePrefix    string
	DBTimeout      time.Duration
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration

	// Cache (Redis). RedisAddr vazio desliga o cache.
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecretKey   string
	TokenExpiry    time.Duration
	PasswordScheme string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// CORS (frontend servido em outra origem)
	CORSAllowedOrigins []string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env já deve ter sido carregado pelo godotenv no main.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "wms")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TABLE_PREFIX", "wms")
	v.SetDefault("DB_TIMEOUT_SEC", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 5)
	v.SetDefault("CACHE_TTL_SEC", 60)
	v.SetDefault("JWT_EXPIRY_MIN", 480)
	v.SetDefault("PASSWORD_SCHEME", "md5")
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 300)
	v.SetDefault("RATE_LIMIT_PERIOD_MIN", 1)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: environment(v),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),

		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetInt("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		TablePrefix:    v.GetString("DB_TABLE_PREFIX"),
		DBTimeout:      time.Duration(v.GetInt("DB_TIMEOUT_SEC")) * time.Second,
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MIN")) * time.Minute,

		RedisAddr: v.GetString("REDIS_ADDR"),
		CacheTTL:  time.Duration(v.GetInt("CACHE_TTL_SEC")) * time.Second,

		// mustGet garante que a aplicação não inicie sem o segredo do JWT
		JWTSecretKey:   mustGet(v, "JWT_SECRET_KEY"),
		TokenExpiry:    time.Duration(v.GetInt("JWT_EXPIRY_MIN")) * time.Minute,
		PasswordScheme: strings.ToLower(v.GetString("PASSWORD_SCHEME")),

		RateLimitMaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(v.GetInt("RATE_LIMIT_PERIOD_MIN")) * time.Minute,

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	return cfg
}

// ConnectionString devolve DATABASE_URL quando definido, senão monta o DSN a partir de DB_*.
func (c *Config) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// IsDevelopment informa se o serviço roda em ambiente de desenvolvimento.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// environment lê APP_ENV e aceita NODE_ENV dos deploys antigos.
func environment(v *viper.Viper) string {
	if env := v.GetString("APP_ENV"); env != "" {
		return env
	}
	if env := v.GetString("NODE_ENV"); env != "" {
		return env
	}
	return "development"
}

func mustGet(v *viper.Viper, key string) string {
	value := v.GetString(key)
	if value == "" {
		log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
