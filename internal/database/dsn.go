package database

import (
	"fmt"
	"sort"
	"strings"
)

// pgSimpleProtocolOption is consumed by openPostgres and never forwarded to the server.
const pgSimpleProtocolOption = "prefer_simple_protocol"

type dsnDefaults struct {
	host    string
	port    int
	options map[string]string
}

var (
	postgresDefaults = dsnDefaults{
		host:    "localhost",
		port:    5432,
		options: map[string]string{"sslmode": "disable", "TimeZone": "UTC"},
	}
	mysqlDefaults = dsnDefaults{
		host:    "127.0.0.1",
		port:    3306,
		options: map[string]string{"charset": "utf8mb4", "parseTime": "True", "loc": "UTC"},
	}
)

// networkTarget validates the credentials shared by the networked drivers and fills in defaults.
// Configured options override the driver defaults; keys listed in skip are dropped.
func networkTarget(driver string, cfg Config, defaults dsnDefaults, skip ...string) (string, int, []string, error) {
	if cfg.User == "" || cfg.Name == "" {
		return "", 0, nil, fmt.Errorf("%s configuration requires user and database name", driver)
	}

	host := cfg.Host
	if host == "" {
		host = defaults.host
	}
	port := cfg.Port
	if port == 0 {
		port = defaults.port
	}

	merged := make(map[string]string, len(defaults.options)+len(cfg.Options))
	for key, value := range defaults.options {
		merged[key] = value
	}
	for key, value := range cfg.Options {
		merged[key] = value
	}
	for _, key := range skip {
		delete(merged, key)
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+merged[key])
	}
	return host, port, pairs, nil
}

func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	host, port, options, err := networkTarget("postgres", cfg, postgresDefaults, pgSimpleProtocolOption)
	if err != nil {
		return "", err
	}

	params := []string{
		"host=" + host,
		fmt.Sprintf("port=%d", port),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
	}
	if cfg.Password != "" {
		params = append(params, "password="+cfg.Password)
	}
	return strings.Join(append(params, options...), " "), nil
}

func buildMySQLDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	host, port, options, err := networkTarget("mysql", cfg, mysqlDefaults)
	if err != nil {
		return "", err
	}

	user := cfg.User
	if cfg.Password != "" {
		user += ":" + cfg.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", user, host, port, cfg.Name, strings.Join(options, "&")), nil
}
