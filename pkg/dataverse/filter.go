package dataverse

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Filter expression helpers for building $filter clause strings.
//
// Standard operators:
// https://docs.microsoft.com/en-us/powerapps/developer/data-platform/webapi/query-data-web-api#standard-filter-operators
//
// Special query functions:
// https://docs.microsoft.com/en-us/dynamics365/customer-engagement/web-api/queryfunctions

// FilterOption adjusts how a single filter clause is rendered.
type FilterOption func(*filterSettings)

type filterSettings struct {
	lambdaIndicator string
	group           bool
}

// WithLambda marks the clause as evaluated inside a lambda operation, using
// the lambda operation's item indicator.
func WithLambda(indicator string) FilterOption {
	return func(s *filterSettings) {
		s.lambdaIndicator = indicator
	}
}

// WithGroup wraps the clause in parentheses.
func WithGroup() FilterOption {
	return func(s *filterSettings) {
		s.group = true
	}
}

func applyFilterOptions(opts []FilterOption) filterSettings {
	var settings filterSettings
	for _, opt := range opts {
		opt(&settings)
	}

	return settings
}

// formatValue renders a filter literal. Booleans and nil render as OData
// literals regardless of quoting.
func formatValue(value any, quote bool) string {
	switch typed := value.(type) {
	case nil:
		return "null"
	case bool:
		if typed {
			return "true"
		}

		return "false"
	case string:
		if quote {
			return "'" + typed + "'"
		}

		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// needsQuotes reports whether a comparison value requires quoting: strings
// do, unless they are syntactically valid UUIDs in canonical form.
func needsQuotes(value any) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}

	return !isValidUUID(text)
}

func isValidUUID(value string) bool {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return false
	}

	return parsed.String() == value
}

func listify(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, formatValue(value, true))
	}

	return "[" + strings.Join(parts, ",") + "]"
}

func indicatorPrefix(settings filterSettings) string {
	if settings.lambdaIndicator == "" {
		return ""
	}

	return settings.lambdaIndicator + "/"
}

func grouped(result string, settings filterSettings) string {
	if settings.group {
		return "(" + result + ")"
	}

	return result
}

func comparison(column string, value any, operator string, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := indicatorPrefix(settings) + column + " " + operator + " " + formatValue(value, needsQuotes(value))

	return grouped(result, settings)
}

func queryFunction(operator, column string, value any, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := operator + "(" + indicatorPrefix(settings) + column + "," + formatValue(value, true) + ")"

	return grouped(result, settings)
}

func lambdaOperator(collection, operator, indicator, operation string, opts []FilterOption) string {
	settings := applyFilterOptions(opts)

	body := ""
	if operation != "" {
		body = indicator + ":" + operation
	}

	result := indicatorPrefix(settings) + collection + "/" + operator + "(" + body + ")"

	return grouped(result, settings)
}

func specialNameOnly(operator, column string, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := indicatorPrefix(settings) + "Microsoft.Dynamics.CRM." + operator +
		"(PropertyName=" + formatValue(column, true) + ")"

	return grouped(result, settings)
}

func specialSingleValue(operator, column string, ref any, refQuotes bool, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := indicatorPrefix(settings) + "Microsoft.Dynamics.CRM." + operator +
		"(PropertyName=" + formatValue(column, true) +
		",PropertyValue=" + formatValue(ref, refQuotes) + ")"

	return grouped(result, settings)
}

func specialTwoValues(operator, column string, ref1, ref2 any, refQuotes bool, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := indicatorPrefix(settings) + "Microsoft.Dynamics.CRM." + operator +
		"(PropertyName=" + formatValue(column, true) +
		",PropertyValue1=" + formatValue(ref1, refQuotes) +
		",PropertyValue2=" + formatValue(ref2, refQuotes) + ")"

	return grouped(result, settings)
}

func specialManyValues(operator, column string, values []any, opts []FilterOption) string {
	settings := applyFilterOptions(opts)
	result := indicatorPrefix(settings) + "Microsoft.Dynamics.CRM." + operator +
		"(PropertyName=" + formatValue(column, true) +
		",PropertyValues=" + listify(values) + ")"

	return grouped(result, settings)
}

// Comparison operations

// Eq evaluates whether the value in the given column equals value.
func Eq(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "eq", opts)
}

// Ne evaluates whether the value in the given column does not equal value.
func Ne(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "ne", opts)
}

// Gt evaluates whether the value in the given column is greater than value.
func Gt(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "gt", opts)
}

// Ge evaluates whether the value in the given column is greater than or
// equal to value.
func Ge(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "ge", opts)
}

// Lt evaluates whether the value in the given column is less than value.
func Lt(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "lt", opts)
}

// Le evaluates whether the value in the given column is less than or equal
// to value.
func Le(column string, value any, opts ...FilterOption) string {
	return comparison(column, value, "le", opts)
}

// Logical operations

// AllOf joins the given operations with "and".
func AllOf(operations []string, opts ...FilterOption) string {
	return grouped(strings.Join(operations, " and "), applyFilterOptions(opts))
}

// AnyOf joins the given operations with "or".
func AnyOf(operations []string, opts ...FilterOption) string {
	return grouped(strings.Join(operations, " or "), applyFilterOptions(opts))
}

// Not inverts the evaluation of an operation. Only works on standard
// operators.
func Not(operation string, opts ...FilterOption) string {
	return grouped("not "+operation, applyFilterOptions(opts))
}

// Standard query functions

// Contains evaluates whether the string value in the given column contains
// value.
func Contains(column string, value any, opts ...FilterOption) string {
	return queryFunction("contains", column, value, opts)
}

// EndsWith evaluates whether the string value in the given column ends
// with value.
func EndsWith(column string, value any, opts ...FilterOption) string {
	return queryFunction("endswith", column, value, opts)
}

// StartsWith evaluates whether the string value in the given column starts
// with value.
func StartsWith(column string, value any, opts ...FilterOption) string {
	return queryFunction("startswith", column, value, opts)
}

// Lambda operations

// Any is true if the operation is true for any member of the collection.
// With an empty operation, it is true if the collection is not empty. The
// indicator names the collection member inside the operation, and should
// be passed to the inner clauses with WithLambda.
func Any(collection, indicator, operation string, opts ...FilterOption) string {
	return lambdaOperator(collection, "any", indicator, operation, opts)
}

// All is true if the operation is true for all members of the collection.
func All(collection, indicator, operation string, opts ...FilterOption) string {
	return lambdaOperator(collection, "all", indicator, operation, opts)
}

// Special query functions - value checks

// In evaluates whether the value in the given column exists in the list of
// values.
func In(column string, values []any, opts ...FilterOption) string {
	return specialManyValues("In", column, values, opts)
}

// NotIn evaluates whether the value in the given column is missing from
// the list of values.
func NotIn(column string, values []any, opts ...FilterOption) string {
	return specialManyValues("NotIn", column, values, opts)
}

// Between evaluates whether the value in the given column is between two
// values.
func Between(column string, low, high any, opts ...FilterOption) string {
	return specialManyValues("Between", column, []any{low, high}, opts)
}

// NotBetween evaluates whether the value in the given column is not
// between two values.
func NotBetween(column string, low, high any, opts ...FilterOption) string {
	return specialManyValues("NotBetween", column, []any{low, high}, opts)
}

// ContainValues evaluates whether the value in the given column contains
// the listed values.
func ContainValues(column string, values []any, opts ...FilterOption) string {
	return specialManyValues("ContainValues", column, values, opts)
}

// NotContainValues evaluates whether the value in the given column does
// not contain the listed values.
func NotContainValues(column string, values []any, opts ...FilterOption) string {
	return specialManyValues("DoesNotContainValues", column, values, opts)
}

// Special query functions - hierarchy checks

// Above evaluates whether the value in the given column is above ref in
// the hierarchy.
func Above(column string, ref any, opts ...FilterOption) string {
	return specialSingleValue("Above", column, ref, true, opts)
}

// AboveOrEqual evaluates whether the value in the given column is above or
// equal to ref in the hierarchy.
func AboveOrEqual(column string, ref any, opts ...FilterOption) string {
	return specialSingleValue("AboveOrEqual", column, ref, true, opts)
}

// Under evaluates whether the value in the given column is below ref in
// the hierarchy.
func Under(column string, ref any, opts ...FilterOption) string {
	return specialSingleValue("Under", column, ref, true, opts)
}

// UnderOrEqual evaluates whether the value in the given column is under or
// equal to ref in the hierarchy.
func UnderOrEqual(column string, ref any, opts ...FilterOption) string {
	return specialSingleValue("UnderOrEqual", column, ref, true, opts)
}

// NotUnder evaluates whether the value in the given column is not below
// ref in the hierarchy.
func NotUnder(column string, ref any, opts ...FilterOption) string {
	return specialSingleValue("NotUnder", column, ref, true, opts)
}

// Special query functions - dates

// Today evaluates whether the date in the given column equals today's date.
func Today(column string, opts ...FilterOption) string {
	return specialNameOnly("Today", column, opts)
}

// Tomorrow evaluates whether the date in the given column equals
// tomorrow's date.
func Tomorrow(column string, opts ...FilterOption) string {
	return specialNameOnly("Tomorrow", column, opts)
}

// Yesterday evaluates whether the date in the given column equals
// yesterday's date.
func Yesterday(column string, opts ...FilterOption) string {
	return specialNameOnly("Yesterday", column, opts)
}

// On evaluates whether the date in the given column is on the specified
// date.
func On(column, date string, opts ...FilterOption) string {
	return specialSingleValue("On", column, date, true, opts)
}

// OnOrAfter evaluates whether the date in the given column is on or after
// the specified date.
func OnOrAfter(column, date string, opts ...FilterOption) string {
	return specialSingleValue("OnOrAfter", column, date, true, opts)
}

// OnOrBefore evaluates whether the date in the given column is on or
// before the specified date.
func OnOrBefore(column, date string, opts ...FilterOption) string {
	return specialSingleValue("OnOrBefore", column, date, true, opts)
}

// InFiscalPeriod evaluates whether the date in the given column is within
// the specified fiscal period.
func InFiscalPeriod(column string, period int, opts ...FilterOption) string {
	return specialSingleValue("InFiscalPeriod", column, period, false, opts)
}

// InFiscalPeriodAndYear evaluates whether the date in the given column is
// within the specified fiscal period and year.
func InFiscalPeriodAndYear(column string, period, year int, opts ...FilterOption) string {
	return specialTwoValues("InFiscalPeriodAndYear", column, period, year, false, opts)
}

// InFiscalYear evaluates whether the date in the given column is within
// the specified fiscal year.
func InFiscalYear(column string, year int, opts ...FilterOption) string {
	return specialSingleValue("InFiscalYear", column, year, false, opts)
}

// InOrAfterFiscalPeriodAndYear evaluates whether the date in the given
// column is within or after the specified fiscal period and year.
func InOrAfterFiscalPeriodAndYear(column string, period, year int, opts ...FilterOption) string {
	return specialTwoValues("InOrAfterFiscalPeriodAndYear", column, period, year, false, opts)
}

// InOrBeforeFiscalPeriodAndYear evaluates whether the date in the given
// column is within or before the specified fiscal period and year.
func InOrBeforeFiscalPeriodAndYear(column string, period, year int, opts ...FilterOption) string {
	return specialTwoValues("InOrBeforeFiscalPeriodAndYear", column, period, year, false, opts)
}

// ThisFiscalPeriod evaluates whether the date in the given column is
// within the current fiscal period.
func ThisFiscalPeriod(column string, opts ...FilterOption) string {
	return specialNameOnly("ThisFiscalPeriod", column, opts)
}

// ThisFiscalYear evaluates whether the date in the given column is within
// the current fiscal year.
func ThisFiscalYear(column string, opts ...FilterOption) string {
	return specialNameOnly("ThisFiscalYear", column, opts)
}

// ThisMonth evaluates whether the date in the given column is within the
// current month.
func ThisMonth(column string, opts ...FilterOption) string {
	return specialNameOnly("ThisMonth", column, opts)
}

// ThisWeek evaluates whether the date in the given column is within the
// current week.
func ThisWeek(column string, opts ...FilterOption) string {
	return specialNameOnly("ThisWeek", column, opts)
}

// ThisYear evaluates whether the date in the given column is within the
// current year.
func ThisYear(column string, opts ...FilterOption) string {
	return specialNameOnly("ThisYear", column, opts)
}

// Last7Days evaluates whether the date in the given column is within the
// last seven days including today.
func Last7Days(column string, opts ...FilterOption) string {
	return specialNameOnly("Last7Days", column, opts)
}

// LastFiscalPeriod evaluates whether the date in the given column is
// within the last fiscal period.
func LastFiscalPeriod(column string, opts ...FilterOption) string {
	return specialNameOnly("LastFiscalPeriod", column, opts)
}

// LastFiscalYear evaluates whether the date in the given column is within
// the last fiscal year.
func LastFiscalYear(column string, opts ...FilterOption) string {
	return specialNameOnly("LastFiscalYear", column, opts)
}

// LastMonth evaluates whether the date in the given column is within the
// last month.
func LastMonth(column string, opts ...FilterOption) string {
	return specialNameOnly("LastMonth", column, opts)
}

// LastWeek evaluates whether the date in the given column is within the
// last week.
func LastWeek(column string, opts ...FilterOption) string {
	return specialNameOnly("LastWeek", column, opts)
}

// LastYear evaluates whether the date in the given column is within the
// last year.
func LastYear(column string, opts ...FilterOption) string {
	return specialNameOnly("LastYear", column, opts)
}

// NextFiscalPeriod evaluates whether the date in the given column is in
// the next fiscal period.
func NextFiscalPeriod(column string, opts ...FilterOption) string {
	return specialNameOnly("NextFiscalPeriod", column, opts)
}

// NextFiscalYear evaluates whether the date in the given column is in the
// next fiscal year.
func NextFiscalYear(column string, opts ...FilterOption) string {
	return specialNameOnly("NextFiscalYear", column, opts)
}

// NextMonth evaluates whether the date in the given column is in the next
// month.
func NextMonth(column string, opts ...FilterOption) string {
	return specialNameOnly("NextMonth", column, opts)
}

// NextWeek evaluates whether the date in the given column is in the next
// week.
func NextWeek(column string, opts ...FilterOption) string {
	return specialNameOnly("NextWeek", column, opts)
}

// NextYear evaluates whether the date in the given column is within the
// next year.
func NextYear(column string, opts ...FilterOption) string {
	return specialNameOnly("NextYear", column, opts)
}

// LastX evaluates whether the date in the given column is within the last
// x units of time, e.g. LastX("modifiedon", 7, dataverse.Days).
func LastX(column string, x int, unit TimeUnit, opts ...FilterOption) string {
	return specialSingleValue("LastX"+string(unit), column, x, false, opts)
}

// NextX evaluates whether the date in the given column is within the next
// x units of time.
func NextX(column string, x int, unit TimeUnit, opts ...FilterOption) string {
	return specialSingleValue("NextX"+string(unit), column, x, false, opts)
}

// OlderThanX evaluates whether the date in the given column is older than
// x units of time.
func OlderThanX(column string, x int, unit TimeUnit, opts ...FilterOption) string {
	return specialSingleValue("OlderThanX"+string(unit), column, x, false, opts)
}

// TimeUnit is a unit of time accepted by the LastX, NextX and OlderThanX
// query functions. Minutes only work with OlderThanX, fiscal units only
// with LastX and NextX.
type TimeUnit string

const (
	Minutes       TimeUnit = "Minutes"
	Hours         TimeUnit = "Hours"
	Days          TimeUnit = "Days"
	Weeks         TimeUnit = "Weeks"
	Months        TimeUnit = "Months"
	Years         TimeUnit = "Years"
	FiscalPeriods TimeUnit = "FiscalPeriods"
	FiscalYears   TimeUnit = "FiscalYears"
)

// Special query functions - business id checks

// EqualBusinessID evaluates whether the value in the given column equals
// the business id of the current user.
func EqualBusinessID(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualBusinessId", column, opts)
}

// NotBusinessID evaluates whether the value in the given column does not
// equal the business id of the current user.
func NotBusinessID(column string, opts ...FilterOption) string {
	return specialNameOnly("NotBusinessId", column, opts)
}

// Special query functions - user id checks

// EqualUserID evaluates whether the value in the given column equals the
// id of the current user.
func EqualUserID(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserId", column, opts)
}

// NotUserID evaluates whether the value in the given column does not equal
// the id of the current user.
func NotUserID(column string, opts ...FilterOption) string {
	return specialNameOnly("NotUserId", column, opts)
}

// Special query functions - misc

// EqualUserLanguage evaluates whether the value in the given column equals
// the language of the current user.
func EqualUserLanguage(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserLanguage", column, opts)
}

// EqualUserOrUserHierarchy evaluates whether the value in the given column
// equals the current user or their reporting hierarchy.
func EqualUserOrUserHierarchy(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserOrUserHierarchy", column, opts)
}

// EqualUserOrUserHierarchyAndTeams evaluates whether the value in the
// given column equals the current user, or their reporting hierarchy and
// teams.
func EqualUserOrUserHierarchyAndTeams(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserOrUserHierarchyAndTeams", column, opts)
}

// EqualUserOrUserTeams evaluates whether the value in the given column
// equals the current user or user teams.
func EqualUserOrUserTeams(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserOrUserTeams", column, opts)
}

// EqualUserTeams evaluates whether the value in the given column equals
// the current user teams.
func EqualUserTeams(column string, opts ...FilterOption) string {
	return specialNameOnly("EqualUserTeams", column, opts)
}
