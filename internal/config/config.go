package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Topic is one fixed discussion topic a post can be routed to, mapping
// a user-facing label to the channel's forum thread id.
type Topic struct {
	Label    string `koanf:"label"`
	ThreadID int    `koanf:"thread_id"`
}

// Config represents the application configuration
type Config struct {
	Telegram struct {
		Token       string `koanf:"token"`
		GroupID     int64  `koanf:"group_id"`
		ChannelID   int64  `koanf:"channel_id"`
		BotUsername string `koanf:"bot_username"`
		PinPosts    bool   `koanf:"pin_posts"`
	} `koanf:"telegram"`

	Topics []Topic `koanf:"topics"`

	Storage struct {
		Path string `koanf:"path"`
	} `koanf:"storage"`

	Admin struct {
		Enabled bool   `koanf:"enabled"`
		Addr    string `koanf:"addr"`
	} `koanf:"admin"`

	Logging struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"logging"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"storage.path":  "./data/posts.json",
		"admin.enabled": false,
		"admin.addr":    ":8090",
		"logging.level": "info",
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./anonpost.toml", "$HOME/.anonpost.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix ANONPOST_. A double
	// underscore separates nesting levels so that keys containing a
	// single underscore (group_id, pin_posts) stay addressable:
	// ANONPOST_TELEGRAM__GROUP_ID -> telegram.group_id.
	k.Load(env.Provider("ANONPOST_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ANONPOST_")
		return strings.Replace(strings.ToLower(s), "__", ".", -1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# Anonpost Configuration

[telegram]
token = "your-bot-token"
# Group whose members may post.
group_id = -1001234567890
# Channel (or forum supergroup) posts are published to.
channel_id = -1009876543210
# Optional; discovered from the Bot API when empty.
bot_username = ""
pin_posts = false

# Fixed topics a post can be routed to. Leave empty to skip the
# topic step entirely.
[[topics]]
label = "Family"
thread_id = 2

[[topics]]
label = "Work"
thread_id = 3

[storage]
path = "./data/posts.json"

[admin]
enabled = false
addr = ":8090"

[logging]
level = "info"
pretty = true
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if config.Telegram.GroupID == 0 {
		return fmt.Errorf("telegram group_id is required")
	}
	if config.Telegram.ChannelID == 0 {
		return fmt.Errorf("telegram channel_id is required")
	}
	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	seen := make(map[string]bool, len(config.Topics))
	for _, topic := range config.Topics {
		if topic.Label == "" {
			return fmt.Errorf("topic with empty label")
		}
		if seen[strings.ToLower(topic.Label)] {
			return fmt.Errorf("duplicate topic label %q", topic.Label)
		}
		seen[strings.ToLower(topic.Label)] = true
	}

	return nil
}
