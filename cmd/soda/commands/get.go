package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

// ErrAllWithCSV is returned when --all is combined with csv output.
var ErrAllWithCSV = errors.New("--all is not supported with csv output")

// NewGetCommand creates the get command
//
//nolint:funlen // Command setup is mostly flag declarations
func NewGetCommand() *cobra.Command {
	var (
		selectClause string
		where        string
		order        string
		group        string
		search       string
		soql         string
		limit        int
		offset       int
		systemFields bool
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "get <identifier>",
		Short: "Read rows from a dataset",
		Long: `Read rows from a dataset, optionally filtered with SoQL.

The identifier is the dataset's id ("6zsd-86xi") or a single row
("6zsd-86xi/10224"). With --all, every matching row is pulled page by page;
without it a single request is made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			query := soda.NewQuery().
				WithSelect(selectClause).
				WithWhere(where).
				WithOrder(order).
				WithGroup(group).
				WithQ(search).
				WithSoQL(soql).
				WithLimit(limit).
				WithOffset(offset)
			if systemFields {
				query = query.WithSystemFields()
			}

			identifier := args[0]
			output := viper.GetString("output")

			if output == OutputFormatCSV {
				if all {
					return ErrAllWithCSV
				}

				records, err := client.GetCSV(cmd.Context(), identifier, query)
				if err != nil {
					return err
				}

				writer := csv.NewWriter(os.Stdout)
				if err := writer.WriteAll(records); err != nil {
					return fmt.Errorf("writing csv: %w", err)
				}

				return nil
			}

			var rows []soda.Row

			if all {
				bar := newSpinner("Fetching rows")

				err = client.GetAll(cmd.Context(), identifier, query).ForEach(func(row soda.Row) error {
					rows = append(rows, row)
					_ = bar.Add(1)

					return nil
				})

				_ = bar.Finish()

				if err != nil {
					return err
				}
			} else {
				rows, err = client.Get(cmd.Context(), identifier, query)
				if err != nil {
					return err
				}
			}

			switch output {
			case OutputFormatJSON:
				return outputJSON(rows)
			case OutputFormatYAML:
				return outputYAML(rows)
			default:
				return renderRowsTable(rows)
			}
		},
	}

	cmd.Flags().StringVar(&selectClause, "select", "", "columns to return ($select)")
	cmd.Flags().StringVar(&where, "where", "", "row filter ($where)")
	cmd.Flags().StringVar(&order, "order", "", "result order ($order)")
	cmd.Flags().StringVar(&group, "group", "", "grouping column ($group)")
	cmd.Flags().StringVarP(&search, "query", "q", "", "full text search ($q)")
	cmd.Flags().StringVar(&soql, "soql", "", "complete SoQL query ($query), replaces the other clauses")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows per request ($limit, server default 1000)")
	cmd.Flags().IntVar(&offset, "offset", 0, "starting offset ($offset)")
	cmd.Flags().BoolVar(&systemFields, "system-fields", false, "include :id, :created_at and :updated_at")
	cmd.Flags().BoolVar(&all, "all", false, "pull every matching row, paging as needed")

	return cmd
}
