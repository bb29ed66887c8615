package dataverse

import "strings"

// Aggregation helpers for building $apply clause strings.
//
// https://docs.microsoft.com/en-us/powerapps/developer/data-platform/webapi/query-data-web-api#aggregate-data

// AggregateFunc is an aggregation method usable in Aggregate.
type AggregateFunc string

const (
	Average AggregateFunc = "average"
	Sum     AggregateFunc = "sum"
	Min     AggregateFunc = "min"
	Max     AggregateFunc = "max"
	Count   AggregateFunc = "count"
)

// Aggregate produces an aggregation over the given column, exposing the
// result under the given alias, e.g.
//
//	Aggregate("estimatedvalue", dataverse.Sum, "total")
func Aggregate(column string, with AggregateFunc, alias string) string {
	return "aggregate(" + column + " with " + string(with) + " as " + alias + ")"
}

// GroupBy groups the rows by the given columns. An optional aggregation,
// built with Aggregate, is applied per group.
func GroupBy(columns []string, aggregate ...string) string {
	inner := "(" + strings.Join(columns, ",") + ")"
	if len(aggregate) > 0 {
		inner += "," + strings.Join(aggregate, ",")
	}

	return "groupby(" + inner + ")"
}

// FilteredGroupBy filters the rows before grouping them.
func FilteredGroupBy(by Filter, columns []string, aggregate ...string) string {
	return "filter(" + by.String() + ")/" + GroupBy(columns, aggregate...)
}
