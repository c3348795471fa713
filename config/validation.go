package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	// RequirePassword forces DB_PASSWORD when the postgres driver is selected
	RequirePassword bool
	// AllowSQLite permits the embedded sqlite driver
	AllowSQLite bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {RequirePassword: false, AllowSQLite: true},
	Test:        {RequirePassword: false, AllowSQLite: true},
	CI:          {RequirePassword: true, AllowSQLite: true},
	Production:  {RequirePassword: true, AllowSQLite: false},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must be set"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "must be set for the postgres driver"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "must be set for the postgres driver"})
		}
		if reqs.RequirePassword && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required in this environment"})
		}
	case DriverSQLite:
		if !reqs.AllowSQLite {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "must be set for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.ImageStorage {
	case StorageLocal:
		if cfg.UploadsDir == "" {
			errs = append(errs, ValidationError{"UPLOADS_DIR", "must be set for local image storage"})
		}
	case StorageS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "must be set for s3 image storage"})
		}
	default:
		errs = append(errs, ValidationError{"IMAGE_STORAGE", fmt.Sprintf("unsupported storage %q", cfg.ImageStorage)})
	}

	if cfg.MaxUploadBytes <= 0 {
		errs = append(errs, ValidationError{"MAX_UPLOAD_BYTES", "must be positive"})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
