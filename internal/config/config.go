package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the engine
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// RouterAddressKey is the account the router acts with. Either an hex
	// address or a label turned into an address
	RouterAddressKey = "ROUTER_ADDRESS"
	// WrappedNativeTokenKey is the token wrapping the chain's native currency
	WrappedNativeTokenKey = "WRAPPED_NATIVE_TOKEN"
	// FeeAdministratorKey is the account allowed to change the protocol fee
	// settings, used when initializing the factory
	FeeAdministratorKey = "FEE_ADMINISTRATOR"
	// DeadlineGraceKey is the duration after which a router operation
	// submitted via CLI expires, when no explicit deadline is given
	DeadlineGraceKey = "DEADLINE_GRACE"
	// EnableMetricsKey enables counting published events with prometheus
	EnableMetricsKey = "ENABLE_METRICS"
	// MetricsDumpFileKey is the file, relative to the datadir, where metrics
	// are dumped at the end of every command when enabled
	MetricsDumpFileKey = "METRICS_DUMP_FILE"

	DbLocation      = "db"
	MetricsLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("gem", false)

	supportedDBTypes = map[string]bool{
		DBBadger:   true,
		DBInMemory: true,
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("GEM")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(RouterAddressKey, "router")
	vip.SetDefault(WrappedNativeTokenKey, "wrapped-native")
	vip.SetDefault(FeeAdministratorKey, "admin")
	vip.SetDefault(DeadlineGraceKey, 20*time.Minute)
	vip.SetDefault(EnableMetricsKey, false)
	vip.SetDefault(MetricsDumpFileKey, "metrics.txt")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// Set overrides the value of the given key, flags take precedence over env
// vars this way.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the persistent database, empty when the
// engine is configured to run in memory.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetMetricsDumpFile returns the path of the metrics dump file, empty if
// metrics are disabled.
func GetMetricsDumpFile() string {
	if !GetBool(EnableMetricsKey) {
		return ""
	}
	return filepath.Join(GetDatadir(), MetricsLocation, GetString(MetricsDumpFileKey))
}

// GetAddress resolves the value of the given key into an address.
func GetAddress(key string) (domain.Address, error) {
	return ParseAddress(GetString(key))
}

// ParseAddress accepts either an hex address or a label, turned into the
// address named after it.
func ParseAddress(s string) (domain.Address, error) {
	if len(s) <= 0 {
		return domain.ZeroAddress, domain.ErrMalformedAddress
	}
	if addr, err := domain.ParseAddress(s); err == nil {
		return addr, nil
	}
	return domain.NamedAddress(s), nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if !supportedDBTypes[dbType] {
		return fmt.Errorf("unsupported database type %s", dbType)
	}

	for _, key := range []string{
		RouterAddressKey, WrappedNativeTokenKey, FeeAdministratorKey,
	} {
		addr, err := GetAddress(key)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", key, err)
		}
		if addr.IsZero() {
			return fmt.Errorf("%s must not be the null address", key)
		}
	}

	if GetDuration(DeadlineGraceKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", DeadlineGraceKey)
	}

	return nil
}

func initDatadir() error {
	if dbDir := GetDbDir(); len(dbDir) > 0 {
		if err := makeDirectoryIfNotExists(dbDir); err != nil {
			return err
		}
	}

	if GetBool(EnableMetricsKey) {
		datadir := GetDatadir()
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, MetricsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
