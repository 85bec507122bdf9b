package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirphl/card-transactions-generator/generator"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateGeneratorConfig validates the generator configuration. Every problem
// is reported at once; nothing is generated from an invalid configuration.
func ValidateGeneratorConfig(cfg *GeneratorConfig) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, validationMessage(fe))
		}
	}

	if err := generator.ValidateSeedBounds(cfg.Job.JobIndex(), cfg.Job.Threads, cfg.Job.RowsPerThread); err != nil {
		errs = append(errs, err.Error())
	}

	errs = append(errs, partitionBackendErrors(cfg)...)

	if cfg.ReferencePool.Enabled && cfg.ReferencePool.Backend == PartitionBackendPostgres &&
		cfg.Partition.Backend != PartitionBackendPostgres && cfg.Database.Host == "" {
		errs = append(errs, "DB_HOST is required for the postgres reference pool")
	}
	if cfg.ReferencePool.Enabled && cfg.ReferencePool.TableName == "" {
		errs = append(errs, "HASH_PAN_TABLE_NAME is required when the reference pool is enabled")
	}
	if cfg.Upload.BaseDelay < 0 {
		errs = append(errs, "UPLOAD_BASE_DELAY must not be negative")
	}
	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		errs = append(errs, "LOG_FILE_PATH is required when logging to a file")
	}
	if cfg.Metrics.Enabled && (cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535) {
		errs = append(errs, "STATUS_SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Profiling.Enabled && cfg.Profiling.ServerAddress == "" {
		errs = append(errs, "PYROSCOPE_SERVER_ADDRESS is required when profiling is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ValidatePartitionConfig checks only what the partition maintenance commands
// need, so operators can run them without the upload settings.
func ValidatePartitionConfig(cfg *GeneratorConfig) error {
	var errs []string
	if err := validate.Struct(cfg.Partition); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, validationMessage(fe))
		}
	}
	errs = append(errs, partitionBackendErrors(cfg)...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func partitionBackendErrors(cfg *GeneratorConfig) []string {
	var errs []string
	switch cfg.Partition.Backend {
	case PartitionBackendPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, "DB_HOST is required for the postgres partition backend")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			errs = append(errs, "DB_PORT must be between 1 and 65535")
		}
	case PartitionBackendRedis:
		if cfg.Cache.RedisURL == "" {
			errs = append(errs, "CACHE_REDIS_URL is required for the redis partition backend")
		}
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "GeneratorConfig.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
