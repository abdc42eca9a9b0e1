package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewAttachmentsCommand creates the attachments command group
func NewAttachmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachments",
		Aliases: []string{"attachment"},
		Short:   "Work with dataset attachments",
		Long:    "List and download the files attached to a dataset.",
	}

	cmd.AddCommand(newAttachmentsListCommand())
	cmd.AddCommand(newAttachmentsDownloadCommand())

	return cmd
}

func newAttachmentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <identifier>",
		Short: "List a dataset's attachments",
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

			attachments := metadata.Attachments()

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(attachments)
			case OutputFormatYAML:
				return outputYAML(attachments)
			default:
				if len(attachments) == 0 {
					fmt.Println("No attachments found")

					return nil
				}

				rows := make([][]string, 0, len(attachments))
				for _, attachment := range attachments {
					rows = append(rows, []string{attachment.Filename, attachment.AssetID, attachment.BlobID})
				}

				return renderTable([]string{"Filename", "Asset ID", "Blob ID"}, rows)
			}
		},
	}
}

func newAttachmentsDownloadCommand() *cobra.Command {
	var downloadDir string

	cmd := &cobra.Command{
		Use:   "download <identifier>",
		Short: "Download a dataset's attachments",
		Long: `Download every attachment of a dataset into <dir>/<identifier>/.

A failed download stops the command; files downloaded before the failure are
kept and listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			bar := newSpinner("Downloading attachments")
			done := make(chan struct{})
			stopped := make(chan struct{})

			// The download is a single blocking call, so tick the spinner
			// from a goroutine until it returns.
			go func() {
				defer close(stopped)

				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()

				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						_ = bar.Add(0)
					}
				}
			}()

			files, downloadErr := client.DownloadAttachments(cmd.Context(), args[0], downloadDir)

			close(done)
			<-stopped
			_ = bar.Finish()

			for _, file := range files {
				fmt.Println(file)
			}

			if downloadErr != nil {
				return downloadErr
			}

			if len(files) == 0 {
				fmt.Println("No attachments found")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&downloadDir, "dir", "~/soda_downloads", "directory to download into")

	return cmd
}
