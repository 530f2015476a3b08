package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	appName      = "r6scrape"
	defaultLabel = "Default"
)

var ErrNoConfig = errors.New("no config selected")

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, appName)
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func configPath(label string) string {
	return filepath.Join(ConfigsDir(), label+".yaml")
}

func validateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("label %q cannot contain path separators", label)
	}
	return nil
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0755)
}

func setCurrent(label string) error {
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0644)
}

func CurrentLabel() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(CurrentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoConfig
	}

	return configPath(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListConfigs() ([]ConfigInfo, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ConfigsDir())
	if err != nil {
		return nil, err
	}

	activeLabel, _ := CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		label, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok {
			continue
		}

		out = append(out, ConfigInfo{
			Label:  label,
			Path:   configPath(label),
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchConfig(label string) error {
	if err := validateLabel(label); err != nil {
		return err
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	if _, err := os.Stat(configPath(label)); err != nil {
		return fmt.Errorf("config %q does not exist", label)
	}

	return setCurrent(label)
}

func AddConfig(label, srcPath string) error {
	if err := validateLabel(label); err != nil {
		return err
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	dst := configPath(label)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("config %q already exists", label)
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	// Reject files that would fail later at load time.
	var probe Config
	if err := yamlStrict(raw, &probe); err != nil {
		return fmt.Errorf("invalid config %s: %w", srcPath, err)
	}

	return os.WriteFile(dst, raw, 0644)
}

func CreateEmptyConfig(label string) (string, error) {
	if err := validateLabel(label); err != nil {
		return "", err
	}
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := configPath(label)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config %q already exists", label)
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

// RenameConfig moves a profile to a new label. active reports that the
// renamed profile is the one in use, in which case it stays selected.
func RenameConfig(oldLabel, newLabel string) (active bool, err error) {
	for _, l := range []string{oldLabel, newLabel} {
		if err := validateLabel(l); err != nil {
			return false, err
		}
	}
	if oldLabel == defaultLabel {
		return false, errors.New("cannot rename the Default config")
	}
	if err := ensureDirs(); err != nil {
		return false, err
	}

	oldPath := configPath(oldLabel)
	newPath := configPath(newLabel)

	if _, err := os.Stat(oldPath); err != nil {
		return false, fmt.Errorf("config %q does not exist", oldLabel)
	}
	if _, err := os.Stat(newPath); err == nil {
		return false, fmt.Errorf("config %q already exists", newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return false, err
	}

	if current, _ := CurrentLabel(); current == oldLabel {
		return true, setCurrent(newLabel)
	}

	return false, nil
}

// RemoveConfig deletes a profile. Removing the active one switches back to
// Default, and switched reports that.
func RemoveConfig(label string) (switched bool, err error) {
	if err := validateLabel(label); err != nil {
		return false, err
	}
	if label == defaultLabel {
		return false, errors.New("cannot remove the Default config")
	}
	if err := ensureDirs(); err != nil {
		return false, err
	}

	path := configPath(label)
	if _, err := os.Stat(path); err != nil {
		return false, fmt.Errorf("config %q does not exist", label)
	}

	if active, _ := CurrentLabel(); active == label {
		if err := SwitchConfig(defaultLabel); err != nil {
			return false, fmt.Errorf("failed switching to Default: %w", err)
		}
		switched = true
	}

	return switched, os.Remove(path)
}

func InitDefaultConfig() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	defPath := configPath(defaultLabel)

	if _, err := os.Stat(defPath); err == nil {
		_ = setCurrent(defaultLabel)
		return defPath, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), defPath); err != nil {
		return "", err
	}

	_ = setCurrent(defaultLabel)
	return defPath, nil
}

// ConfigPathByLabel returns the path of an existing profile.
func ConfigPathByLabel(label string) (string, error) {
	if err := validateLabel(label); err != nil {
		return "", err
	}

	path := configPath(label)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config %q does not exist", label)
	}

	return path, nil
}
