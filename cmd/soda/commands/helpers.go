package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/soda/internal/constants"
	"github.com/fivetwenty-io/soda/pkg/soda"
	"github.com/fivetwenty-io/soda/pkg/sodaclient"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"

	Masked = "***"
)

// CreateClient builds a soda.Client from the effective configuration.
func CreateClient() (soda.Client, error) {
	domain := viper.GetString("domain")
	if domain == "" {
		return nil, constants.ErrNoDomainConfigured
	}

	config := &soda.Config{
		Domain:      domain,
		AppToken:    viper.GetString("app_token"),
		Username:    viper.GetString("username"),
		Password:    viper.GetString("password"),
		AccessToken: viper.GetString("access_token"),
		Debug:       viper.GetBool("verbose"),
		Logger:      &zerologAdapter{logger: newLogger()},
	}

	if timeout := viper.GetString("timeout"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}

		config.Timeout = parsed
	}

	client, err := sodaclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// newLogger configures the zerolog logger. Console format on a terminal,
// JSON otherwise.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	if isatty.IsTerminal(os.Stderr.Fd()) {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    viper.GetBool("no-color"),
		}

		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// zerologAdapter exposes a zerolog.Logger through the soda.Logger interface.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}

// newSpinner creates an indeterminate progress spinner on stderr, shown only
// when stderr is a terminal.
func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(isatty.IsTerminal(os.Stderr.Fd())),
	)
}

// outputJSON writes a value to stdout as indented JSON.
func outputJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// outputYAML writes a value to stdout as YAML.
func outputYAML(value interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return encoder.Close()
}

// renderTable writes one table to stdout.
func renderTable(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toCells(headers)...)

	for _, row := range rows {
		_ = table.Append(toCells(row)...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}

	return cells
}

// rowColumns returns the column names of a result set, taken sorted from the
// first row.
func rowColumns(rows []soda.Row) []string {
	if len(rows) == 0 {
		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}

	sort.Strings(columns)

	return columns
}

// renderRowsTable writes rows to stdout as a table, one column per field.
func renderRowsTable(rows []soda.Row) error {
	if len(rows) == 0 {
		fmt.Println("No rows found")

		return nil
	}

	columns := rowColumns(rows)
	cells := make([][]string, 0, len(rows))

	for _, row := range rows {
		line := make([]string, 0, len(columns))
		for _, column := range columns {
			line = append(line, formatValue(row[column]))
		}

		cells = append(cells, line)
	}

	return renderTable(columns, cells)
}

// formatValue renders a decoded JSON value for table output. Nested
// documents are re-encoded compactly.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(encoded)
	}
}

// stringField digs a string out of a nested descriptor document.
func stringField(doc map[string]interface{}, keys ...string) string {
	current := doc

	for i, key := range keys {
		if i == len(keys)-1 {
			return formatValue(current[key])
		}

		next, ok := current[key].(map[string]interface{})
		if !ok {
			return ""
		}

		current = next
	}

	return ""
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return strings.TrimSpace(s[:max-3]) + "..."
}
