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
	Admin   AdminConfig
	HTTP    HTTPConfig
	SMTP    SMTPConfig
	Notify  NotifyConfig
	Barcode BarcodeConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env           string // development, staging, production
	Name          string
	LogLevel      string
	StorageDriver string // postgres | memory
	SwaggerFile   string // se monta /docs solo si el archivo existe
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
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

// JWTConfig configuración de JWT para las rutas de administración.
// Con Secret vacío las rutas de administración quedan abiertas (modo desarrollo).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AdminConfig credenciales del administrador (hash bcrypt, nunca la contraseña en claro).
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPConfig transporte de correo. Host vacío = los correos solo se registran en el log.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// NotifyConfig parámetros del despachador de alertas de stock.
type NotifyConfig struct {
	Workers     int
	QueueSize   int
	Concurrency int // envíos simultáneos por ronda
	MaxAttempts int
	SendTimeout time.Duration
}

// BarcodeConfig asignación de códigos y almacenamiento de las imágenes generadas.
type BarcodeConfig struct {
	MaxAttempts int
	Storage     string // fs | s3
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SMTP_SERVER, NOTIFY_WORKERS, etc.
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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:           getString(v, "APP_ENV", "development"),
			Name:          getString(v, "APP_NAME", "barcode-inventory"),
			LogLevel:      getString(v, "LOG_LEVEL", "info"),
			StorageDriver: getString(v, "STORAGE_DRIVER", "postgres"),
			SwaggerFile:   getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bim_db"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "barcode-inventory"),
		},
		Admin: AdminConfig{
			Email:        getString(v, "ADMIN_EMAIL", ""),
			PasswordHash: getString(v, "ADMIN_PASSWORD_HASH", ""),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8000),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_SERVER", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", ""),
		},
		Notify: NotifyConfig{
			Workers:     getInt(v, "NOTIFY_WORKERS", 2),
			QueueSize:   getInt(v, "NOTIFY_QUEUE_SIZE", 256),
			Concurrency: getInt(v, "NOTIFY_CONCURRENCY", 4),
			MaxAttempts: getInt(v, "NOTIFY_MAX_ATTEMPTS", 3),
			SendTimeout: getDuration(v, "NOTIFY_SEND_TIMEOUT", 15*time.Second),
		},
		Barcode: BarcodeConfig{
			MaxAttempts: getInt(v, "BARCODE_MAX_ATTEMPTS", 10),
			Storage:     getString(v, "BARCODE_STORAGE", "fs"),
			Dir:         getString(v, "BARCODE_DIR", "barcodes"),
			S3Bucket:    getString(v, "S3_BUCKET", ""),
			S3Region:    getString(v, "S3_REGION", "us-east-1"),
			S3Endpoint:  getString(v, "S3_ENDPOINT", ""),
			S3AccessKey: getString(v, "S3_ACCESS_KEY", ""),
			S3SecretKey: getString(v, "S3_SECRET_KEY", ""),
		},
	}

	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.StorageDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER inválido %q", c.App.StorageDriver)
	}
	switch c.Barcode.Storage {
	case "fs":
	case "s3":
		if c.Barcode.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET requerido con BARCODE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("config: BARCODE_STORAGE inválido %q", c.Barcode.Storage)
	}
	if c.Barcode.MaxAttempts <= 0 {
		return fmt.Errorf("config: BARCODE_MAX_ATTEMPTS debe ser positivo")
	}
	if c.Notify.Workers <= 0 || c.Notify.QueueSize <= 0 {
		return fmt.Errorf("config: NOTIFY_WORKERS y NOTIFY_QUEUE_SIZE deben ser positivos")
	}
	return nil
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

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		d := v.GetDuration(key)
		if d > 0 {
			return d
		}
	}
	return def
}
