// Package validation checks decoded configuration sections.
//
// Struct tags are the usual way; field names in messages come from the
// mapstructure tag so they match the configuration keys:
//
//	type Config struct {
//	    Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
//	    PoolSize int    `mapstructure:"pool_size" validate:"gte=0"`
//	}
//	if err := validation.Section("redis", &cfg); err != nil {
//	    return err
//	}
//
// Validator collects errors for checks a tag cannot express.
package validation
