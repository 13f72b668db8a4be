package configuration

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/pkg/logging"
)

const Production = "production"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, looking in the working directory
// first and then in the nearest parent that holds a go.mod.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if path, ok := locate(file); ok {
			existingFiles = append(existingFiles, path)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

func locate(file string) (string, bool) {
	if fileExists(file) {
		return file, true
	}
	if filepath.IsAbs(file) {
		return "", false
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			candidate := filepath.Join(dir, file)
			return candidate, fileExists(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type DatabaseOptions struct {
	Opts       string `env:"-"`
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Name       string `env:"DB_NAME" envDefault:"agentlists"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"./data/agentlists.db"`
}

func (d *DatabaseOptions) ConnectionString() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", d.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

func (d *DatabaseOptions) Validate() error {
	switch d.Driver {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("invalid DB_DRIVER=%q (expected postgres|sqlite)", d.Driver)
	}
}

type LogOptions struct {
	Level string `env:"LOG_LEVEL" envDefault:"error"`
	Path  string `env:"LOG_PATH" envDefault:"./logs/app.log"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"agentlists"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	GlobalRPS int  `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"1000"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	return nil
}

type UploadOptions struct {
	// MaxSize is enforced before the pipeline sees any bytes.
	MaxSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"1000000"`
	MaxMemory int64  `env:"MAX_UPLOAD_MEMORY" envDefault:"1048576"`
	TempDir   string `env:"UPLOADS_TMP_DIR" envDefault:""`
}

func (u *UploadOptions) Validate() error {
	if u.MaxSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", u.MaxSize)
	}
	if u.MaxMemory <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MEMORY must be positive, got %d", u.MaxMemory)
	}
	return nil
}

type Configuration struct {
	Database      DatabaseOptions
	Log           LogOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions
	RateLimit     RateLimitOptions
	Upload        UploadOptions

	ServerPort       int    `env:"PORT" envDefault:"5000"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	CORSOrigins      string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	// Looked up on every request; a random uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// Falls back to request.RemoteAddr when absent.
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`

	logFile io.Closer
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return ParseLogLevel(c.Log.Level)
}

func ParseLogLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// Origins splits CORS_ORIGINS on commas and whitespace.
func (c *Configuration) Origins() []string {
	return strings.FieldsFunc(c.CORSOrigins, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := c.parse(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.Log.Path)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

// parse reads the environment into c and derives computed fields.
func (c *Configuration) parse() error {
	if err := env.Parse(c); err != nil {
		return err
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if err := c.Upload.Validate(); err != nil {
		return fmt.Errorf("upload configuration error: %w", err)
	}

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
