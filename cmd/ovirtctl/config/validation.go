package config

import (
	"fmt"

	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
// and applies the log level.
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateLogLevel(); err != nil {
		return err
	}
	if err := ValidateTimeout(); err != nil {
		return err
	}

	logging.SetLevel(Global.LogLevel)
	return nil
}

// ValidateLogLevel validates the --log-level flag.
func ValidateLogLevel() error {
	if err := validate.LogLevel(Global.LogLevel); err != nil {
		logging.Error("Invalid log level '%s' - valid levels are: DEBUG, INFO, WARN, ERROR", Global.LogLevel)
		return fmt.Errorf("invalid log level - valid: DEBUG, INFO, WARN, ERROR")
	}
	return nil
}

// ValidateTimeout validates the --timeout flag.
func ValidateTimeout() error {
	if err := validate.Field(Global.Timeout, "required,min=1,max=3600"); err != nil {
		logging.Error("Invalid timeout %d: %v", Global.Timeout, err)
		return fmt.Errorf("timeout must be between 1-3600 seconds")
	}
	return nil
}
