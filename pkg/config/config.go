package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Catalog CatalogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	SwaggerEnabled bool
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool

	// Límites del pool; 0 = valor por defecto de pgxpool.
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	// ForceIPv4 marca las conexiones como tcp4 (redes sin IPv6). No reescribe el host.
	ForceIPv4 bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig configuración del almacenamiento de imágenes de producto.
type StorageConfig struct {
	Driver      string // local | s3
	LocalRoot   string
	PublicURL   string
	UploadsDir  string
	S3Bucket    string
	S3Region    string
	S3Key       string
	S3Secret    string
	S3Endpoint  string
	S3PublicURL string
}

// CatalogConfig reglas del catálogo.
type CatalogConfig struct {
	// RequireLot obliga a asociar cada producto nuevo a un lote existente.
	RequireLot bool
	// LowStockThreshold stock a partir del cual un producto aparece como bajo en el dashboard.
	LowStockThreshold int64
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "perfumes-admin-api"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			SwaggerEnabled: getBool(v, "SWAGGER_ENABLED", true),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "perfumes_db"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),

			MaxConns:        int32(getInt(v, "DB_POOL_MAX_CONNS", 25)),
			MinConns:        int32(getInt(v, "DB_POOL_MIN_CONNS", 2)),
			MaxConnLifetime: time.Duration(getInt(v, "DB_POOL_MAX_CONN_LIFETIME_MINUTES", 60)) * time.Minute,
			MaxConnIdleTime: time.Duration(getInt(v, "DB_POOL_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute,
			ForceIPv4:       getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "perfumes-admin-api"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			AllowedOrigins: getList(v, "ALLOWED_ORIGINS", "http://127.0.0.1:5173,http://localhost:5173"),
		},
		Storage: StorageConfig{
			Driver:      getString(v, "STORAGE_DRIVER", "local"),
			LocalRoot:   getString(v, "STORAGE_LOCAL_ROOT", "static"),
			PublicURL:   getString(v, "STORAGE_PUBLIC_URL", "/static"),
			UploadsDir:  getString(v, "UPLOADS_SUBDIR", "uploads"),
			S3Bucket:    getString(v, "S3_BUCKET", ""),
			S3Region:    getString(v, "S3_REGION", "us-east-1"),
			S3Key:       getString(v, "S3_KEY", ""),
			S3Secret:    getString(v, "S3_SECRET", ""),
			S3Endpoint:  getString(v, "S3_ENDPOINT", ""),
			S3PublicURL: getString(v, "S3_URL", ""),
		},
		Catalog: CatalogConfig{
			RequireLot:        getBool(v, "PRODUCT_REQUIRE_LOT", true),
			LowStockThreshold: int64(getInt(v, "LOW_STOCK_THRESHOLD", 3)),
		},
	}

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("DB_DRIVER inválido: %q", cfg.DB.Driver)
	}
	if cfg.Storage.Driver != "local" && cfg.Storage.Driver != "s3" {
		return nil, fmt.Errorf("STORAGE_DRIVER inválido: %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

// getList separa por comas e ignora entradas vacías.
func getList(v *viper.Viper, key, def string) []string {
	raw := getString(v, key, def)
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
