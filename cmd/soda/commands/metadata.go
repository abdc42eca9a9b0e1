package commands

import (
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

// NewMetadataCommand creates the metadata command
func NewMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <identifier>",
		Short: "Show dataset metadata",
		Long:  "Fetch and display the metadata document of a dataset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			metadata, err := client.GetMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(metadata)
			case OutputFormatYAML:
				return outputYAML(metadata)
			default:
				return renderMetadataTable(metadata)
			}
		},
	}
}

// renderMetadataTable shows the document's top level scalar fields; nested
// documents are left to the json and yaml outputs.
func renderMetadataTable(metadata soda.Metadata) error {
	fields := make([]string, 0, len(metadata))

	for field, value := range metadata {
		switch value.(type) {
		case string, float64, bool:
			fields = append(fields, field)
		}
	}

	sort.Strings(fields)

	rows := make([][]string, 0, len(fields)+1)
	for _, field := range fields {
		rows = append(rows, []string{field, truncate(formatValue(metadata[field]), 80)})
	}

	if attachments := metadata.Attachments(); len(attachments) > 0 {
		names := make([]string, 0, len(attachments))
		for _, attachment := range attachments {
			names = append(names, attachment.Filename)
		}

		rows = append(rows, []string{"attachments", formatValue(names)})
	}

	return renderTable([]string{"Field", "Value"}, rows)
}
