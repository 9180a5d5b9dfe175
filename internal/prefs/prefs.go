// Package prefs implements shell preferences and the saveconfig /
// restoreconfig persistence with rotated backups.
package prefs

import (
	"fmt"
	"sort"
	"strconv"
)

// Prefs are the operator-tunable shell settings. They ride along in the
// saved configuration file and can be inspected and changed at runtime
// with the get/set commands.
type Prefs struct {
	// AutoCDAfterCreate changes the current path to newly created objects.
	AutoCDAfterCreate bool `json:"auto_cd_after_create"`

	// AutoSaveOnExit saves the configuration when the interactive shell exits.
	AutoSaveOnExit bool `json:"auto_save_on_exit"`

	// ColorMode enables colored tree and log output.
	ColorMode bool `json:"color_mode"`

	// Username is the default username offered to connect.
	Username string `json:"username"`
}

// Default returns the out-of-the-box preferences.
func Default() Prefs {
	return Prefs{
		AutoCDAfterCreate: false,
		AutoSaveOnExit:    true,
		ColorMode:         true,
	}
}

// Names lists the preference keys in stable order.
func (p *Prefs) Names() []string {
	names := []string{"auto_cd_after_create", "auto_save_on_exit", "color_mode", "username"}
	sort.Strings(names)
	return names
}

// Get returns the string form of one preference.
func (p *Prefs) Get(name string) (string, error) {
	switch name {
	case "auto_cd_after_create":
		return strconv.FormatBool(p.AutoCDAfterCreate), nil
	case "auto_save_on_exit":
		return strconv.FormatBool(p.AutoSaveOnExit), nil
	case "color_mode":
		return strconv.FormatBool(p.ColorMode), nil
	case "username":
		return p.Username, nil
	default:
		return "", fmt.Errorf("no preference named '%s'", name)
	}
}

// Set parses and stores one preference from its string form.
func (p *Prefs) Set(name, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("preference '%s' wants true or false, got '%s'", name, value)
		}
		return b, nil
	}

	switch name {
	case "auto_cd_after_create":
		b, err := parseBool()
		if err != nil {
			return err
		}
		p.AutoCDAfterCreate = b
	case "auto_save_on_exit":
		b, err := parseBool()
		if err != nil {
			return err
		}
		p.AutoSaveOnExit = b
	case "color_mode":
		b, err := parseBool()
		if err != nil {
			return err
		}
		p.ColorMode = b
	case "username":
		p.Username = value
	default:
		return fmt.Errorf("no preference named '%s'", name)
	}
	return nil
}
