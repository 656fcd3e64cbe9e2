package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Struct tags cover the top-level sections. The options of the selected
// backend are decoded into their typed struct and validated the same way,
// then checked against the rules tags cannot express (driver-dependent
// requirements).
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules validates the options of the selected backend.
func validateCustomRules(cfg *Config) error {
	switch cfg.Storage.Type {
	case "local":
		opts, err := decodeLocalOptions(cfg.Storage.Local)
		if err != nil {
			return err
		}
		if err := validate.Struct(opts); err != nil {
			return fmt.Errorf("storage.local: %w", formatValidationError(err))
		}

	case "objectstore":
		opts, err := decodeObjectStoreOptions(cfg.Storage.ObjectStore)
		if err != nil {
			return err
		}
		if err := validate.Struct(opts); err != nil {
			return fmt.Errorf("storage.objectstore: %w", formatValidationError(err))
		}

		switch opts.Driver {
		case "s3":
			if opts.S3.Region == "" {
				return fmt.Errorf("storage.objectstore.s3: region is required")
			}
			if (opts.S3.AccessKeyID == "") != (opts.S3.SecretAccessKey == "") {
				return fmt.Errorf("storage.objectstore.s3: access_key_id and secret_access_key must be set together")
			}
		case "badger":
			if opts.Badger.Path == "" && !opts.Badger.InMemory {
				return fmt.Errorf("storage.objectstore.badger: path is required unless in_memory is true")
			}
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
