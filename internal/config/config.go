package config

import (
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver      string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	SQLitePath  string
	Addr        string
	Environment string
	LogLevel    string
	TxIsolation string
	CORSOrigins []string
	RedisAddr   string
	NATSURL     string
	NATSSubject string
	Hierarchy   string
	SeedDev     bool
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func New() Config {
	return Config{
		Driver:      strings.ToLower(getenv("DB_DRIVER", DriverMySQL)),
		DBUser:      getenv("DB_USER", "root"),
		DBPass:      getenv("DB_PASS", ""),
		DBHost:      getenv("DB_HOST", "127.0.0.1"),
		DBPort:      getenv("DB_PORT", "3306"),
		DBName:      getenv("DB_NAME", "openpetra"),
		SQLitePath:  getenv("SQLITE_PATH", "gl-setup.db"),
		Addr:        getenv("ADDR", ":8080"),
		Environment: getenv("ENVIRONMENT", "dev"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		TxIsolation: getenv("TX_ISOLATION", "serializable"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		RedisAddr:   getenv("REDIS_ADDR", ""),
		NATSURL:     getenv("NATS_URL", ""),
		NATSSubject: getenv("NATS_SUBJECT", "gl.cache.invalidate"),
		Hierarchy:   getenv("DEFAULT_HIERARCHY", "STANDARD"),
		SeedDev:     os.Getenv("SEED_DEV") == "1",
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}

func (c Config) MySQLDSN() string {
	if dsn := os.Getenv("READ_DSN"); dsn != "" {
		return dsn
	}
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4,utf8"}
	return mc.FormatDSN()
}

func (c Config) PostgresDSN() string {
	if dsn := os.Getenv("READ_DSN"); dsn != "" {
		return dsn
	}
	port := c.DBPort
	if port == "3306" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, port, c.DBUser, c.DBPass, c.DBName)
}

// Isolation maps TX_ISOLATION to the level engine transactions start with.
func (c Config) Isolation() (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.ReplaceAll(c.TxIsolation, "-", " ")) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read committed":
		return sql.LevelReadCommitted, nil
	case "repeatable read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, fmt.Errorf("unknown TX_ISOLATION %q", c.TxIsolation)
}
