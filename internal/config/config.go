package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"os"
	"time"
)

const (
	envDbPassword        = "BLOG_DB_PASSWORD"
	envSigningKey        = "BLOG_SIGNING_KEY"
	envAdminPasswordHash = "BLOG_ADMIN_PASSWORD_HASH"
)

type JsonDuration struct {
	time.Duration
}

func (j *JsonDuration) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	var duration time.Duration
	duration, err = time.ParseDuration(s)
	if err != nil {
		return err
	}
	j.Duration = duration
	return err
}

func (j *JsonDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Duration.String())
}

type Configuration struct {
	Logging struct {
		MaxSize         int
		MaxBackups      int
		MaxAge          int
		Level           zapcore.Level
		ConsoleLogLevel zapcore.Level
		File            string
		HttpAccessFile  string
		DbLogFile       string
	}
	ListeningPort    string
	ListeningAddress string
	ShutdownTimeout  *JsonDuration
	Database         struct {
		Host            string
		Port            uint
		Username        string
		Password        string
		DatabaseName    string
		SslMode         string
		MaxIdleConns    int
		MaxOpenConns    int
		ConnMaxLifetime *JsonDuration
	}
	Auth struct {
		SigningKey        string
		AdminUsername     string
		AdminPasswordHash string
		TokenLifetime     *JsonDuration
	}
}

var config *Configuration

// InitConfig parses the command line, loads the configuration file it points to
// and makes the result available through Config().
// A missing or broken configuration file is fatal at startup.
func InitConfig() *Configuration {
	configFile := flag.String("config", "config.json", "Path to config file (json)")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "\nUsage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		_, _ = fmt.Fprint(os.Stderr, "\n")
	}
	flag.Parse()

	// a missing .env file is fine; the process environment is used as is
	_ = godotenv.Load()

	c, err := LoadConfig(*configFile)
	if err != nil {
		flag.Usage()
		panic("Error parsing config file: " + err.Error())
	}

	config = c
	return config
}

// LoadConfig reads the json configuration at path, applies environment overrides
// and fills in defaults for everything left unset.
func LoadConfig(path string) (*Configuration, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer file.Close()

	var c Configuration
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding config file %q: %w", path, err)
	}

	applyEnvironment(&c)
	applyDefaults(&c)

	if len(c.ListeningAddress) == 0 && len(c.ListeningPort) == 0 {
		return nil, errors.New("no listening address/port provided")
	}

	return &c, nil
}

func applyEnvironment(c *Configuration) {
	if v := os.Getenv(envDbPassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(envSigningKey); v != "" {
		c.Auth.SigningKey = v
	}
	if v := os.Getenv(envAdminPasswordHash); v != "" {
		c.Auth.AdminPasswordHash = v
	}
}

func applyDefaults(c *Configuration) {
	if c.Logging.MaxSize <= 0 {
		c.Logging.MaxSize = 500
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge <= 0 {
		c.Logging.MaxAge = 28
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SslMode == "" {
		c.Database.SslMode = "disable"
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.ConnMaxLifetime == nil {
		c.Database.ConnMaxLifetime = &JsonDuration{Duration: time.Hour}
	}
	if c.Auth.TokenLifetime == nil {
		c.Auth.TokenLifetime = &JsonDuration{Duration: 12 * time.Hour}
	}
	if c.ShutdownTimeout == nil {
		c.ShutdownTimeout = &JsonDuration{Duration: 10 * time.Second}
	}
}

func Config() *Configuration {
	return config
}

func Port() string {
	return config.ListeningPort
}

func Address() string {
	return config.ListeningAddress
}

func DbHost() string {
	return config.Database.Host
}

func DbName() string {
	return config.Database.DatabaseName
}

func DbUser() string {
	return config.Database.Username
}

func DbPassword() string {
	return config.Database.Password
}
