package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

// NewDatasetsCommand creates the datasets command
func NewDatasetsCommand() *cobra.Command {
	var (
		limit      int
		offset     int
		order      string
		search     string
		categories []string
		tags       []string
		only       []string
	)

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Search the domain's dataset catalog",
		Long: `Search the dataset catalog of the configured domain.

Without --limit the complete catalog is fetched, which may take several
requests on large portals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			query := soda.NewCatalogQuery().
				WithLimit(limit).
				WithOffset(offset).
				WithOrder(order).
				WithSearch(search).
				WithCategories(categories...).
				WithTags(tags...).
				WithOnly(only...)

			results, err := client.Datasets(cmd.Context(), query)
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return outputJSON(results)
			case OutputFormatYAML:
				return outputYAML(results)
			default:
				return renderDatasetsTable(results)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 fetches everything)")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset into the result set")
	cmd.Flags().StringVar(&order, "order", "", "sort field, optionally with ' ASC' or ' DESC'")
	cmd.Flags().StringVarP(&search, "query", "q", "", "full text search")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "filter by category (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "filter by tag (repeatable)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "filter by asset type, e.g. dataset, chart (repeatable)")

	return cmd
}

func renderDatasetsTable(results []soda.DatasetDescriptor) error {
	if len(results) == 0 {
		fmt.Println("No datasets found")

		return nil
	}

	rows := make([][]string, 0, len(results))

	for _, descriptor := range results {
		rows = append(rows, []string{
			stringField(descriptor, "resource", "id"),
			truncate(stringField(descriptor, "resource", "name"), 60),
			stringField(descriptor, "resource", "type"),
			stringField(descriptor, "resource", "updatedAt"),
		})
	}

	if err := renderTable([]string{"ID", "Name", "Type", "Updated"}, rows); err != nil {
		return err
	}

	fmt.Printf("\n%d datasets\n", len(results))

	return nil
}
