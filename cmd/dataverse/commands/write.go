package commands

import (
	"fmt"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "create TABLE DATA",
		Short: "Create a row in a table",
		Long:  `Create a row in a Dataverse table. DATA is a JSON object of column values.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseRowData(args[1])
			if err != nil {
				return err
			}

			client, err := buildClient()
			if err != nil {
				return err
			}

			query := client.Query()
			query.SetTable(args[0])
			query.SetSelect(selected...)

			response, err := client.Post(cmd.Context(), data, nil)
			if err != nil {
				return err
			}

			if len(response.Data) == 0 {
				fmt.Println("Row created")

				return nil
			}

			return outputRows([]dataverse.Row{response.Data})
		},
	}

	cmd.Flags().StringSliceVar(&selected, "select", nil, "columns to return from the created row")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "update TABLE ROW_ID DATA",
		Short: "Update a row in a table",
		Long:  `Update a row in a Dataverse table. DATA is a JSON object of column values.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseRowData(args[2])
			if err != nil {
				return err
			}

			client, err := buildClient()
			if err != nil {
				return err
			}

			query := client.Query()
			query.SetTable(args[0])
			query.SetRowID(args[1])
			query.SetSelect(selected...)

			response, err := client.Patch(cmd.Context(), data, nil)
			if err != nil {
				return err
			}

			if len(response.Data) == 0 {
				fmt.Println("Row updated")

				return nil
			}

			return outputRows([]dataverse.Row{response.Data})
		},
	}

	cmd.Flags().StringSliceVar(&selected, "select", nil, "columns to return from the updated row")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TABLE ROW_ID",
		Short: "Delete a row from a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			query := client.Query()
			query.SetTable(args[0])
			query.SetRowID(args[1])

			if err := client.Delete(cmd.Context(), nil); err != nil {
				return err
			}

			fmt.Println("Row deleted")

			return nil
		},
	}
}
