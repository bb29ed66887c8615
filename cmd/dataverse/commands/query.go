package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		selected    []string
		filters     []string
		anyOf       bool
		orderBy     []string
		top         int
		count       bool
		rowID       string
		expand      string
		fetchXML    string
		apply       string
		pages       int
		notFoundOK  bool
		annotations bool
	)

	cmd := &cobra.Command{
		Use:   "query TABLE",
		Short: "Query rows from a table",
		Long: `Query rows from a Dataverse table with OData query options.

Filter clauses are joined with "and" by default, or with "or" when --or
is set. The --expand value is a JSON object mapping navigation properties
to their nested options, e.g. '{"contacts": {"select": ["name"]}}'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			query := client.Query()
			query.SetTable(args[0])
			query.SetRowID(rowID)
			query.SetSelect(selected...)
			query.SetTop(top)
			query.SetCount(count)
			query.SetApply(apply)
			query.SetFetchXML(fetchXML)
			query.SetShowAnnotations(annotations)

			if len(filters) > 0 {
				filter := dataverse.And(filters...)
				if anyOf {
					filter = dataverse.Or(filters...)
				}

				if err := query.SetFilter(filter); err != nil {
					return err
				}
			}

			if err := applyOrderBy(query, orderBy); err != nil {
				return err
			}

			if err := applyExpand(query, expand); err != nil {
				return err
			}

			options := &dataverse.GetOptions{NotFoundOK: notFoundOK}
			if pages != 0 {
				options.Pagination = &dataverse.PaginationRules{Pages: pages}
			}

			response, err := client.Get(cmd.Context(), options)
			if err != nil {
				return err
			}

			if response.Count != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Count: %d\n", *response.Count)
			}

			return outputRows(response.Data)
		},
	}

	cmd.Flags().StringSliceVar(&selected, "select", nil, "columns to select")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter clause, repeatable")
	cmd.Flags().BoolVar(&anyOf, "or", false, "join filter clauses with \"or\" instead of \"and\"")
	cmd.Flags().StringSliceVar(&orderBy, "orderby", nil, "ordering as column or column:desc")
	cmd.Flags().IntVar(&top, "top", 0, "limit the number of rows")
	cmd.Flags().BoolVar(&count, "count", false, "include the total row count")
	cmd.Flags().StringVar(&rowID, "row-id", "", "fetch a single row by primary id")
	cmd.Flags().StringVar(&expand, "expand", "", "expand options as a JSON object")
	cmd.Flags().StringVar(&fetchXML, "fetchxml", "", "raw FetchXML query, replaces other options")
	cmd.Flags().StringVar(&apply, "apply", "", "aggregation expression for $apply")
	cmd.Flags().IntVar(&pages, "pages", 0, "extra pages to fetch, -1 for all")
	cmd.Flags().BoolVar(&notFoundOK, "not-found-ok", false, "print nothing instead of failing when no rows match")
	cmd.Flags().BoolVar(&annotations, "annotations", false, "include all response annotations")

	return cmd
}

func applyOrderBy(query *dataverse.Query, orderBy []string) error {
	if len(orderBy) == 0 {
		return nil
	}

	clauses := make([]dataverse.OrderBy, 0, len(orderBy))

	for _, clause := range orderBy {
		column, direction, found := strings.Cut(clause, ":")
		if !found {
			clauses = append(clauses, dataverse.OrderBy{Column: column, Direction: dataverse.Ascending})

			continue
		}

		clauses = append(clauses, dataverse.OrderBy{
			Column:    column,
			Direction: dataverse.Direction(direction),
		})
	}

	return query.SetOrderBy(clauses...)
}

func applyExpand(query *dataverse.Query, expand string) error {
	if expand == "" {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(expand), &raw); err != nil {
		return fmt.Errorf("parsing expand options: %w", err)
	}

	items, err := dataverse.ParseExpand(raw)
	if err != nil {
		return err
	}

	query.SetExpand(items...)
	return nil
}
