// Package config provides configuration management and environment variable handling for the generator
package config

import (
	"fmt"
	"strings"
	"time"
)

// Partition counter backends.
const (
	PartitionBackendDynamoDB = "dynamodb"
	PartitionBackendPostgres = "postgres"
	PartitionBackendRedis    = "redis"
	PartitionBackendMemory   = "memory"
)

// ThreadsPerJob is the number of worker threads a job runs by default.
const ThreadsPerJob = 3

// GeneratorConfig holds all configuration of one generator job
type GeneratorConfig struct {
	Job           JobConfig           `json:"job"`
	Storage       StorageConfig       `json:"storage"`
	Upload        UploadConfig        `json:"upload"`
	Partition     PartitionConfig     `json:"partition"`
	ReferencePool ReferencePoolConfig `json:"reference_pool"`
	Database      DatabaseConfig      `json:"database"`
	Cache         CacheConfig         `json:"cache"`
	Logging       LoggingConfig       `json:"logging"`
	Metrics       MetricsConfig       `json:"metrics"`
	Profiling     ProfilingConfig     `json:"profiling"`
	Report        ReportConfig        `json:"report"`
}

type JobConfig struct {
	ArrayIndex     int     `json:"array_index" validate:"gte=0"`
	IndexOffset    int     `json:"index_offset" validate:"gte=0"`
	BatchJobID     string  `json:"batch_job_id"`
	RowsPerThread  int     `json:"rows_per_thread" validate:"gt=0"`
	Threads        int     `json:"threads" validate:"gte=1"`
	ChargebackRate float64 `json:"chargeback_rate" validate:"gte=0,lte=1"`
	InitialLoad    bool    `json:"initial_load"`
	CardBrand      string  `json:"card_brand" validate:"required"`
	NetworkBrand   string  `json:"network_brand" validate:"required"`
}

// JobIndex is the array index shifted by the submitter's offset.
func (j JobConfig) JobIndex() int {
	return j.ArrayIndex + j.IndexOffset
}

// JobID identifies this job in the partition counter's active map.
func (j JobConfig) JobID() string {
	if j.BatchJobID == "" {
		return "local"
	}
	return fmt.Sprintf("%s_%d", strings.ReplaceAll(j.BatchJobID, ":", "_"), j.ArrayIndex)
}

type StorageConfig struct {
	PaymentDataBucket   string `json:"payment_data_bucket" validate:"required"`
	AuthorizationBucket string `json:"authorization_bucket" validate:"required"`
	ClearingBucket      string `json:"clearing_bucket" validate:"required"`
	ChargebackBucket    string `json:"chargeback_bucket" validate:"required"`
	Region              string `json:"region" validate:"required"`
	Endpoint            string `json:"endpoint"`
	UsePathStyle        bool   `json:"use_path_style"`
	DryRun              bool   `json:"dry_run"`
}

type UploadConfig struct {
	MaxAttempts int           `json:"max_attempts" validate:"gte=1"`
	BaseDelay   time.Duration `json:"base_delay"`
}

type PartitionConfig struct {
	Backend   string `json:"backend" validate:"oneof=dynamodb postgres redis memory"`
	TableName string `json:"table_name" validate:"required"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
}

type ReferencePoolConfig struct {
	Enabled     bool   `json:"enabled"`
	Backend     string `json:"backend" validate:"oneof=dynamodb postgres"`
	TableName   string `json:"table_name"`
	PoolSize    int    `json:"pool_size" validate:"gt=0"`
	RecordCount int    `json:"record_count" validate:"gt=0"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type CacheConfig struct {
	RedisURL    string `json:"redis_url"`
	RedisDB     int    `json:"redis_db"`
	RedisPrefix string `json:"redis_prefix"`
}

type LoggingConfig struct {
	Level      string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Output     string `json:"output" validate:"oneof=stdout file both"`
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

type ProfilingConfig struct {
	Enabled       bool   `json:"enabled"`
	ServerAddress string `json:"server_address"`
	AppName       string `json:"app_name"`
}

type ReportConfig struct {
	Path string `json:"path"`
}

// BucketFor returns the table-specific bucket of a table family.
func (s StorageConfig) BucketFor(family string) string {
	switch family {
	case "authorization":
		return s.AuthorizationBucket
	case "clearing":
		return s.ClearingBucket
	case "chargeback":
		return s.ChargebackBucket
	}
	return ""
}

// LoadGeneratorConfig loads configuration from an optional .env file and the environment
func LoadGeneratorConfig() (*GeneratorConfig, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	arrayIndex, err := getEnvIntStrict("AWS_BATCH_JOB_ARRAY_INDEX", 0)
	if err != nil {
		return nil, err
	}
	indexOffset, err := getEnvIntStrict("JOB_INDEX_OFFSET", 0)
	if err != nil {
		return nil, err
	}
	rowsPerThread, err := getEnvIntStrict("NUM_OF_ROWS", 100000)
	if err != nil {
		return nil, err
	}
	threads, err := getEnvIntStrict("NUM_OF_THREADS", ThreadsPerJob)
	if err != nil {
		return nil, err
	}

	region := getEnvString("AWS_DEFAULT_REGION", "us-east-1")

	cfg := &GeneratorConfig{
		Job: JobConfig{
			ArrayIndex:    arrayIndex,
			IndexOffset:   indexOffset,
			BatchJobID:    getEnvString("AWS_BATCH_JOB_ID", ""),
			RowsPerThread: rowsPerThread,
			Threads:       threads,
			// CHARGEBACK_PERCENTAGE is a percentage: 0.1 means 0.1%
			ChargebackRate: getEnvFloat("CHARGEBACK_PERCENTAGE", 0.1) / 100,
			InitialLoad:    getEnvBool("INITIAL_LOAD", true),
			CardBrand:      getEnvString("CARD_BRAND", "MASTERCARD"),
			NetworkBrand:   getEnvString("NETWORK_BRAND", "MASTERCARD"),
		},
		Storage: StorageConfig{
			PaymentDataBucket:   getEnvString("PAYMENT_DATA_BUCKET_NAME", ""),
			AuthorizationBucket: getEnvString("AUTHORIZATION_BUCKET_NAME", ""),
			ClearingBucket:      getEnvString("CLEARING_BUCKET_NAME", ""),
			ChargebackBucket:    getEnvString("CHARGEBACK_BUCKET_NAME", ""),
			Region:              region,
			Endpoint:            getEnvString("S3_ENDPOINT", ""),
			UsePathStyle:        getEnvBool("S3_USE_PATH_STYLE", false),
			DryRun:              getEnvBool("DRY_RUN", false),
		},
		Upload: UploadConfig{
			MaxAttempts: getEnvInt("UPLOAD_MAX_ATTEMPTS", 3),
			BaseDelay:   getEnvDuration("UPLOAD_BASE_DELAY", time.Second),
		},
		Partition: PartitionConfig{
			Backend:   getEnvString("PARTITION_BACKEND", PartitionBackendDynamoDB),
			TableName: getEnvString("PARTITION_COUNTER_TABLE_NAME", "partition_counters"),
			Region:    getEnvString("DYNAMODB_REGION", region),
			Endpoint:  getEnvString("DYNAMODB_ENDPOINT", ""),
		},
		ReferencePool: ReferencePoolConfig{
			Enabled:     getEnvBool("REFERENCE_POOL_ENABLED", true),
			Backend:     getEnvString("REFERENCE_POOL_BACKEND", PartitionBackendDynamoDB),
			TableName:   getEnvString("HASH_PAN_TABLE_NAME", "hash_pans"),
			PoolSize:    getEnvInt("REFERENCE_POOL_SIZE", 1000),
			RecordCount: getEnvInt("REFERENCE_RECORD_COUNT", 100000),
		},
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "postgres"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Cache: CacheConfig{
			RedisURL:    getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:     getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix: getEnvString("CACHE_REDIS_PREFIX", "txgen:"),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Output:     getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:   getEnvString("LOG_FILE_PATH", "logs/generator.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 7),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("STATUS_SERVER_ENABLED", false),
			Host:    getEnvString("STATUS_SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("STATUS_SERVER_PORT", 9090),
		},
		Profiling: ProfilingConfig{
			Enabled:       getEnvBool("PYROSCOPE_ENABLED", false),
			ServerAddress: getEnvString("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040"),
			AppName:       getEnvString("PYROSCOPE_APP_NAME", "card-transactions-generator"),
		},
		Report: ReportConfig{
			Path: getEnvString("REPORT_PATH", ""),
		},
	}

	return cfg, nil
}
