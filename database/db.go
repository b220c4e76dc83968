package database

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database and caches the handle. DB_DRIVER
// selects the backend: "sqlite" (default) runs from a local file and suits
// single-node deployments and tests, "mysql" connects to a server with TLS,
// pooling and retry. Call sites never see the difference; they go through the
// returned *gorm.DB.
func Connect() (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}

	driver := strings.ToLower(getenv("DB_DRIVER", "sqlite"))
	switch driver {
	case "sqlite":
		return connectSQLite()
	case "mysql":
		return connectMySQL()
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func connectSQLite() (*gorm.DB, error) {
	path := getenv("DB_PATH", "earnpro.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db at %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY churn.
	sqlDB.SetMaxOpenConns(1)
	DB = db
	return DB, nil
}

func connectMySQL() (*gorm.DB, error) {
	host := getenv("DB_HOST", "127.0.0.1")
	port := getenv("DB_PORT", "3306")
	user := getenv("DB_USER", "root")
	pass := getenv("DB_PASS", "")
	name := getenv("DB_NAME", "earnpro")
	params := getenv("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=Local")

	// Allow explicit DSN override
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		if !strings.Contains(params, "tls=") {
			tlsMode := getenv("DB_TLS", "true")
			if tlsMode == "true" || tlsMode == "preferred" {
				if getenv("DB_TLS_VERIFY", "false") == "true" {
					// custom TLS config is registered below and referenced by name
					params = params + "&tls=custom"
				} else {
					params = params + "&tls=true"
				}
			}
		}
		if !strings.Contains(params, "timeout=") {
			params = params + "&timeout=10s"
		}
		if !strings.Contains(params, "readTimeout=") {
			params = params + "&readTimeout=10s"
		}
		if !strings.Contains(params, "writeTimeout=") {
			params = params + "&writeTimeout=10s"
		}

		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, name, params)
	}

	safeDSN := dsn
	if pass != "" {
		safeDSN = strings.Replace(safeDSN, pass, "******", 1)
	}
	log.Printf("[database] using DSN: %s", safeDSN)

	if strings.Contains(dsn, "tls=custom") {
		caPath := getenv("DB_TLS_CA_PATH", "")
		tlsCfg := &tls.Config{}
		if caPath != "" {
			caCert, err := os.ReadFile(caPath)
			if err != nil {
				return nil, fmt.Errorf("failed reading DB TLS CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, errors.New("failed to append CA certs")
			}
			tlsCfg.RootCAs = pool
		}
		clientCert := getenv("DB_TLS_CLIENT_CERT", "")
		clientKey := getenv("DB_TLS_CLIENT_KEY", "")
		if clientCert != "" && clientKey != "" {
			cert, err := tls.LoadX509KeyPair(clientCert, clientKey)
			if err != nil {
				return nil, fmt.Errorf("failed to load client cert/key: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}
		mysqldriver.RegisterTLSConfig("custom", tlsCfg)
	}

	// Retry connection with exponential backoff
	maxRetries := atoi(getenv("DB_CONNECT_RETRIES", "5"))
	if maxRetries < 1 {
		maxRetries = 1
	}
	var db *gorm.DB
	var err error
	backoff := time.Second
	for attempt := 0; attempt < maxRetries; attempt++ {
		db, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger()})
		if err == nil {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	maxOpen := atoi(getenv("DB_MAX_OPEN_CONNS", "25"))
	maxIdle := atoi(getenv("DB_MAX_IDLE_CONNS", "25"))
	maxLifetimeSec := atoi(getenv("DB_CONN_MAX_LIFETIME", "3600"))

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLifetimeSec) * time.Second)

	if getenv("DB_PING_ON_CONNECT", "true") == "true" {
		if err := pingWithTimeout(sqlDB, 5*time.Second); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
	}

	DB = db
	return DB, nil
}

func gormLogger() logger.Interface {
	if strings.ToLower(getenv("ENV", "development")) == "development" {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func pingWithTimeout(db *sql.DB, timeout time.Duration) error {
	ch := make(chan error, 1)
	go func() {
		ch <- db.Ping()
	}()
	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("ping timeout after %s", timeout)
	}
}
