package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// EnvCommand returns the env command
func EnvCommand() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Check environment variable overrides",
		Action: func(c *cli.Context) error {
			PrintConfigCheck(CheckRequiredConfig())
			return nil
		},
	}
}

// ConfigCheckResult holds the result of configuration validation
type ConfigCheckResult struct {
	Missing []string          // Required variables that are missing
	Present map[string]string // Variables that are set (masked values)
}

// CheckRequiredConfig validates the environment overrides. The TOML file
// can supply everything, so only the token is treated as required here:
// deployments that skip the file entirely must at least set it.
func CheckRequiredConfig() *ConfigCheckResult {
	result := &ConfigCheckResult{
		Missing: []string{},
		Present: make(map[string]string),
	}

	requiredVars := []string{
		"ANONPOST_TELEGRAM__TOKEN",
	}

	for _, v := range requiredVars {
		val := os.Getenv(v)
		if val == "" {
			result.Missing = append(result.Missing, v)
		} else {
			result.Present[v] = maskSecret(val)
		}
	}

	optionalVars := []string{
		"ANONPOST_TELEGRAM__GROUP_ID",
		"ANONPOST_TELEGRAM__CHANNEL_ID",
		"ANONPOST_STORAGE__PATH",
		"ANONPOST_ADMIN__ADDR",
		"ANONPOST_LOGGING__LEVEL",
	}

	for _, v := range optionalVars {
		val := os.Getenv(v)
		if val != "" {
			result.Present[v] = maskSecret(val)
		}
	}

	return result
}

// PrintConfigCheck prints the configuration check results
func PrintConfigCheck(result *ConfigCheckResult) {
	fmt.Println("=== Environment Check ===")

	if len(result.Missing) > 0 {
		fmt.Println("Missing variables (required unless set in the config file):")
		for _, v := range result.Missing {
			fmt.Printf("   - %s\n", v)
		}
		fmt.Println("")
	}

	if len(result.Present) > 0 {
		fmt.Println("Configured variables:")
		for k, v := range result.Present {
			fmt.Printf("   - %s = %s\n", k, v)
		}
		fmt.Println("")
	}

	if len(result.Missing) == 0 {
		fmt.Println("All required environment variables are present")
	}

	fmt.Println("=========================")
}

// maskSecret hides all but the edges of a secret value.
func maskSecret(val string) string {
	if len(val) <= 8 {
		return strings.Repeat("*", len(val))
	}
	return val[:4] + strings.Repeat("*", len(val)-8) + val[len(val)-4:]
}
