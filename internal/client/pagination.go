package client

import (
	"context"
	"strings"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
)

const nextLinkMarker = "@odata.nextLink"

// handlePagination fetches continuation pages for the response according
// to the rules, then paginates expanded child collections inside the
// returned rows. The rules' page budgets are consumed in place.
func (c *Client) handlePagination(
	ctx context.Context,
	response *dataverse.GetResponse,
	rules *dataverse.PaginationRules,
	notFoundOK bool,
) error {
	pagesize := c.query.Pagesize()

	switch {
	case rules.Pages != 0 && response.NextLink != nil && len(response.Data) == pagesize:
		rules.Pages--

		rest, err := c.get(ctx, *response.NextLink, notFoundOK, rules)
		if err != nil {
			return err
		}

		response.Data = append(response.Data, rest.Data...)
		response.NextLink = rest.NextLink

	case len(response.Data) < pagesize:
		// Continuation links sometimes appear even when everything was
		// already fetched. A short page means there is nothing more.
		response.NextLink = nil
	}

	if len(rules.Children) == 0 {
		return nil
	}

	return c.paginateChildren(ctx, response.Data, rules.Children, notFoundOK)
}

// paginateChildren follows "{column}@odata.nextLink" continuation links
// inside the rows for the child collections named by the rules. The
// marker column is consumed, and restored when more data remains after the
// fetched pages.
func (c *Client) paginateChildren(
	ctx context.Context,
	data []dataverse.Row,
	rules map[string]*dataverse.PaginationRules,
	notFoundOK bool,
) error {
	pagesize := c.query.Pagesize()

	for _, row := range data {
		columns := make([]string, 0, len(row))
		for column := range row {
			columns = append(columns, column)
		}

		for _, column := range columns {
			if !strings.Contains(column, nextLinkMarker) {
				continue
			}

			key := strings.TrimSuffix(column, nextLinkMarker)

			query, _ := row[column].(string)
			delete(row, column)

			items, _ := row[key].([]any)
			if len(items) < pagesize {
				continue
			}

			childRules := rules[key]
			if childRules == nil || childRules.Pages == 0 {
				continue
			}

			childRules.Pages--

			rest, err := c.get(ctx, query, notFoundOK, childRules)
			if err != nil {
				return err
			}

			for _, child := range rest.Data {
				items = append(items, child)
			}

			row[key] = items

			if rest.NextLink != nil {
				row[column] = *rest.NextLink
			}
		}
	}

	return nil
}
