package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/soda/internal/constants"
)

// NewAuthCommand creates the auth command group
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
		Long:  "Store and inspect the domain, app token and username used by the CLI.",
	}

	cmd.AddCommand(newAuthSetCommand())
	cmd.AddCommand(newAuthShowCommand())

	return cmd
}

func newAuthSetCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the domain, app token and username",
		Long: `Store the configured domain, an application token and optionally a username
in the config file.

Passwords are never written to disk; pass them per invocation through
SODA_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := viper.GetString("domain")
			if domain == "" {
				return constants.ErrNoDomainConfigured
			}

			appToken := viper.GetString("app_token")
			if appToken == "" {
				fmt.Print("App token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read app token: %w", err)
				}

				appToken = string(byteToken)

				fmt.Println()
			}

			if appToken == "" {
				return constants.ErrNoAppTokenGiven
			}

			if username == "" {
				username = viper.GetString("username")
			}

			return writeConfig(domain, appToken, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for basic auth requests")

	return cmd
}

func newAuthShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			appToken := ""
			if viper.GetString("app_token") != "" {
				appToken = Masked
			}

			info := struct {
				Domain   string `json:"domain"              yaml:"domain"`
				AppToken string `json:"app_token,omitempty" yaml:"app_token,omitempty"`
				Username string `json:"username,omitempty"  yaml:"username,omitempty"`
				Config   string `json:"config,omitempty"    yaml:"config,omitempty"`
			}{
				Domain:   viper.GetString("domain"),
				AppToken: appToken,
				Username: viper.GetString("username"),
				Config:   viper.ConfigFileUsed(),
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(info)
			case OutputFormatYAML:
				return outputYAML(info)
			default:
				return renderTable(
					[]string{"Property", "Value"},
					[][]string{
						{"Domain", info.Domain},
						{"App Token", info.AppToken},
						{"Username", info.Username},
						{"Config", info.Config},
					},
				)
			}
		},
	}
}

// writeConfig persists the domain, app token and username, and nothing else,
// to the config file. The file is kept private; tokens are secrets.
func writeConfig(domain, appToken, username string) error {
	path := viper.ConfigFileUsed()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}

		dir := filepath.Join(home, ".soda")
		if err := os.MkdirAll(dir, constants.ConfigDirPerm); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		path = filepath.Join(dir, "config.yml")
	}

	settings := map[string]string{
		"domain":    domain,
		"app_token": appToken,
	}
	if username != "" {
		settings["username"] = username
	}

	payload, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, payload, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Println("Configuration saved to", path)

	return nil
}
