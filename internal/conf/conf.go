// File: internal/conf/conf.go

// Package conf reads and writes the flat opendns.conf format: an INI file
// with a single case-preserving [opendns] section, optionally followed by
// commented human-readable summary sections. Saved files double as an audit
// snapshot and as a re-playable input for the apply operation.
package conf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	ini "gopkg.in/ini.v1"
)

const sectionName = "opendns"

// Keys of the [opendns] section. Environment variables with the same names
// override file values.
const (
	KeyUser           = "OPENDNS_USER"
	KeyPass           = "OPENDNS_PASS"
	KeyNetworkID      = "NETWORK_ID"
	KeyScreenshotPath = "SCREENSHOT_PATH"
	// KeyCategories is the legacy desired-block list key, still accepted on
	// parse for configs written by older versions.
	KeyCategories        = "CATEGORIES"
	KeyBlockedCategories = "BLOCKED_CATEGORIES"
	KeyAllowedCategories = "ALLOWED_CATEGORIES"
)

// MissingCategoriesError reports a config file carrying neither
// BLOCKED_CATEGORIES nor the legacy CATEGORIES key.
type MissingCategoriesError struct {
	Path string
}

func (e *MissingCategoriesError) Error() string {
	return fmt.Sprintf("no categories found in configuration file %q (need %s or %s)",
		e.Path, KeyBlockedCategories, KeyCategories)
}

// Config is the parsed content of an opendns.conf file, after environment
// overrides. Credentials are opaque: nothing here validates them.
type Config struct {
	User           string
	Pass           string
	NetworkID      string
	ScreenshotPath string

	// Blocked is the desired-block list; every known category not named here
	// is desired allowed.
	Blocked []string
	// Allowed is only populated from files produced by save operations.
	Allowed []string
}

// Load reads and parses the file at path, then applies environment overrides.
// A missing file surfaces the underlying fs.ErrNotExist through the wrap; a
// file without a category list fails with *MissingCategoriesError.
func Load(path string) (*Config, error) {
	cfg, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	if cfg.Blocked == nil {
		return nil, &MissingCategoriesError{Path: path}
	}
	return cfg, nil
}

// LoadCredentials parses the file like Load but tolerates a missing category
// list, for operations that only authenticate or observe. Blocked stays nil
// when neither category key is present.
func LoadCredentials(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("configuration file not accessible: %w", err)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	section := file.Section(sectionName)
	cfg := &Config{
		User:           getKey(section, KeyUser),
		Pass:           getKey(section, KeyPass),
		NetworkID:      getKey(section, KeyNetworkID),
		ScreenshotPath: getKey(section, KeyScreenshotPath),
	}

	// Prefer the explicit blocked list; fall back to the legacy key.
	switch {
	case hasKey(section, KeyBlockedCategories):
		cfg.Blocked = SplitList(getKey(section, KeyBlockedCategories))
	case hasKey(section, KeyCategories):
		cfg.Blocked = SplitList(getKey(section, KeyCategories))
	}

	if hasKey(section, KeyAllowedCategories) {
		cfg.Allowed = SplitList(getKey(section, KeyAllowedCategories))
	}

	return cfg, nil
}

// getKey returns the env override when set, otherwise the file value.
func getKey(section *ini.Section, key string) string {
	if env, ok := os.LookupEnv(key); ok {
		return env
	}
	return section.Key(key).String()
}

// hasKey reports whether the key is available from the environment or file.
func hasKey(section *ini.Section, key string) bool {
	if _, ok := os.LookupEnv(key); ok {
		return true
	}
	return section.HasKey(key)
}

// SplitList parses a comma-separated category list, trimming whitespace and
// dropping empty entries. No other normalization is applied: category names
// are compared exactly.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Serialize renders a saved configuration: the [opendns] key/value section
// followed by a commented per-category summary and a commented list of every
// known category. catalog supplies the ordering; observed maps category name
// to its blocked state.
func Serialize(catalog []string, observed map[string]bool, user, pass, networkID, screenshotPath string) ([]byte, error) {
	var blocked, allowed []string
	for _, name := range catalog {
		if isBlocked, ok := observed[name]; ok && isBlocked {
			blocked = append(blocked, name)
		} else if ok {
			allowed = append(allowed, name)
		}
	}

	file := ini.Empty()
	section, err := file.NewSection(sectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to build configuration section: %w", err)
	}
	for _, kv := range [][2]string{
		{KeyUser, user},
		{KeyPass, pass},
		{KeyNetworkID, networkID},
		{KeyScreenshotPath, screenshotPath},
		{KeyBlockedCategories, strings.Join(blocked, ", ")},
		{KeyAllowedCategories, strings.Join(allowed, ", ")},
	} {
		if _, err := section.NewKey(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", kv[0], err)
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render configuration: %w", err)
	}

	buf.WriteString("\n# [Summary]\n")
	for _, name := range catalog {
		if isBlocked, ok := observed[name]; ok {
			state := "Allowed"
			if isBlocked {
				state = "Blocked"
			}
			fmt.Fprintf(&buf, "# %s: %s\n", name, state)
		}
	}

	buf.WriteString("\n# [All available categories]\n")
	for _, name := range catalog {
		fmt.Fprintf(&buf, "# %s\n", name)
	}

	return buf.Bytes(), nil
}

// Save writes a serialized snapshot to a timestamped opendns.conf.<ts> file
// in the current directory and returns its path. Saved files are immutable:
// every save produces a new file.
func Save(catalog []string, observed map[string]bool, user, pass, networkID, screenshotPath string) (string, error) {
	data, err := Serialize(catalog, observed, user, pass, networkID, screenshotPath)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("opendns.conf.%s", time.Now().Format("20060102150405"))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write configuration file: %w", err)
	}
	return path, nil
}

// WriteSample generates a skeleton configuration listing every known category
// under the legacy CATEGORIES key, returning the generated path.
func WriteSample(categories []string, screenshotPath string) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s]\n", sectionName)
	fmt.Fprintf(&buf, "%s = \n", KeyUser)
	fmt.Fprintf(&buf, "%s = \n", KeyPass)
	fmt.Fprintf(&buf, "%s = \n", KeyNetworkID)
	fmt.Fprintf(&buf, "%s = %s\n", KeyScreenshotPath, screenshotPath)
	fmt.Fprintf(&buf, "%s = %s\n", KeyCategories, strings.Join(categories, ", "))

	path := fmt.Sprintf("opendns.conf.sample.%s", time.Now().Format("20060102150405"))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write sample configuration: %w", err)
	}
	return path, nil
}
