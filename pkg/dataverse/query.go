package dataverse

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// MaxPagesize is the largest page size the Web API accepts.
const MaxPagesize = 5000

// Static errors for err113 compliance.
var (
	ErrFilterEmpty        = errors.New("filter must contain at least one clause")
	ErrOrderByEmpty       = errors.New("orderby must contain at least one column")
	ErrInvalidDirection   = errors.New("orderby direction must be either asc or desc")
	ErrPagesizeTooSmall   = errors.New("pagesize must be greater than zero")
	ErrPagesizeTooLarge   = errors.New("maximum pagesize exceeded")
	ErrInvalidExpandKey   = errors.New("not a valid query option inside expand statement")
	ErrInvalidExpandValue = errors.New("invalid value for expand query option")
)

// Direction is a sort direction in an $orderby clause.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// OrderBy is a single column/direction pair in an $orderby clause.
type OrderBy struct {
	Column    string
	Direction Direction
}

// Filter is a list of $filter clause strings joined with a single logical
// operator: And joins clauses with "and", Or with "or". Clause strings can
// be written by hand or built with the filter helper functions.
type Filter struct {
	clauses []string
	anyOf   bool
}

// And creates a filter that requires all the given clauses to hold.
func And(clauses ...string) Filter {
	return Filter{clauses: clauses}
}

// Or creates a filter that requires at least one of the given clauses to hold.
func Or(clauses ...string) Filter {
	return Filter{clauses: clauses, anyOf: true}
}

// IsZero reports whether the filter has no clauses.
func (f Filter) IsZero() bool {
	return len(f.clauses) == 0
}

// Clauses returns the clause strings of the filter.
func (f Filter) Clauses() []string {
	return f.clauses
}

// String renders the filter body without the "$filter=" prefix.
func (f Filter) String() string {
	operator := " and "
	if f.anyOf {
		operator = " or "
	}

	parts := make([]string, 0, len(f.clauses))
	for _, clause := range f.clauses {
		parts = append(parts, strings.TrimSpace(clause))
	}

	return strings.Join(parts, operator)
}

// ExpandItem is a single navigation property in an $expand clause, with
// optional nested query options.
type ExpandItem struct {
	// Property is the navigation property to expand.
	Property string
	// Options are the query options applied inside the expanded property.
	// Nil (or all-zero) options expand the bare property.
	Options *ExpandOptions
}

// ExpandOptions is the closed set of query options accepted inside an
// $expand clause (Web API v9.1). Nested expands only work on single-valued
// navigation properties.
type ExpandOptions struct {
	Select  []string
	Filter  Filter
	Top     int
	OrderBy []OrderBy
	Expand  []ExpandItem
}

func (o *ExpandOptions) isZero() bool {
	return o == nil ||
		(len(o.Select) == 0 && o.Filter.IsZero() && o.Top == 0 &&
			len(o.OrderBy) == 0 && len(o.Expand) == 0)
}

// Query holds the OData query options for a single request. Options are
// set through validating setters and compiled into a request URL with URL.
// The zero value is not usable; create instances with NewQuery.
type Query struct {
	table            string
	rowID            string
	action           string
	addRefToProperty string
	preExpand        string

	selected []string
	filter   Filter
	expand   []ExpandItem
	orderby  []OrderBy
	top      int
	count    bool
	apply    string
	fetchXML string

	headers  map[string]string
	pagesize int
}

// NewQuery creates an empty query with the default pagesize.
func NewQuery() *Query {
	return &Query{
		headers:  map[string]string{},
		pagesize: MaxPagesize,
	}
}

// Reset clears all query options and headers. Pagesize persists.
func (q *Query) Reset() {
	q.table = ""
	q.rowID = ""
	q.action = ""
	q.addRefToProperty = ""
	q.preExpand = ""

	q.selected = nil
	q.filter = Filter{}
	q.expand = nil
	q.orderby = nil
	q.top = 0
	q.count = false
	q.apply = ""
	q.fetchXML = ""

	q.headers = map[string]string{}
}

// Table returns the table the query targets.
func (q *Query) Table() string { return q.table }

// SetTable sets the table to search in.
func (q *Query) SetTable(name string) { q.table = name }

// RowID returns the row id the query targets.
func (q *Query) RowID() string { return q.rowID }

// SetRowID restricts the query to the row with this id. If the table has an
// alternate key defined, "foo=bar" or "foo=bar,fizz=buzz" also retrieve a
// single row.
func (q *Query) SetRowID(id string) { q.rowID = id }

// Action returns the Web API action or function of the query.
func (q *Query) Action() string { return q.action }

// SetAction sets the Web API action or function to call, e.g. "WhoAmI()".
func (q *Query) SetAction(action string) { q.action = action }

// AddRefToProperty returns the navigation property a reference is added to.
func (q *Query) AddRefToProperty() string { return q.addRefToProperty }

// SetAddRefToProperty makes the query link an existing row to the given
// navigation property. The request body should then contain the API URL of
// the row to link: {"@odata.id": "<api url>/<table>(<id>)"}. While set, all
// other query options are left out of the request URL.
func (q *Query) SetAddRefToProperty(property string) { q.addRefToProperty = property }

// PreExpand returns the linked table navigated to before query options.
func (q *Query) PreExpand() string { return q.preExpand }

// SetPreExpand navigates to a linked table of the target table before any
// query options are taken into account.
func (q *Query) SetPreExpand(property string) { q.preExpand = property }

// Select returns the current $select columns.
func (q *Query) Select() []string { return q.selected }

// SetSelect sets the $select statement, choosing the columns returned.
func (q *Query) SetSelect(columns ...string) { q.selected = columns }

// Filter returns the current $filter.
func (q *Query) Filter() Filter { return q.filter }

// SetFilter sets the $filter statement, choosing the rows returned. The
// filter must contain at least one clause.
func (q *Query) SetFilter(filter Filter) error {
	if filter.IsZero() {
		return ErrFilterEmpty
	}

	q.filter = filter

	return nil
}

// Expand returns the current $expand items.
func (q *Query) Expand() []ExpandItem { return q.expand }

// SetExpand sets the $expand statement, choosing what data from related
// entities is returned. Each request can include at most 10 expand
// statements, nested ones included.
func (q *Query) SetExpand(items ...ExpandItem) { q.expand = items }

// OrderBy returns the current $orderby items.
func (q *Query) OrderBy() []OrderBy { return q.orderby }

// SetOrderBy sets the $orderby statement, choosing the order in which rows
// are returned. Every item needs an explicit direction.
func (q *Query) SetOrderBy(items ...OrderBy) error {
	if len(items) == 0 {
		return ErrOrderByEmpty
	}

	for _, item := range items {
		if item.Direction != Ascending && item.Direction != Descending {
			return fmt.Errorf("%w: got %q", ErrInvalidDirection, item.Direction)
		}
	}

	q.orderby = items

	return nil
}

// Top returns the current $top value.
func (q *Query) Top() int { return q.top }

// SetTop sets the $top statement, limiting the number of rows returned.
// Top and count should not be used in the same query.
func (q *Query) SetTop(number int) { q.top = number }

// Count returns whether $count is requested.
func (q *Query) Count() bool { return q.count }

// SetCount sets the $count statement, including the count of rows matching
// the filter criteria in the result. Count and top should not be used in
// the same query.
func (q *Query) SetCount(enabled bool) { q.count = enabled }

// Apply returns the current $apply statement.
func (q *Query) Apply() string { return q.apply }

// SetApply sets the $apply statement, aggregating or grouping results. The
// statement can be written by hand or built with GroupBy, Aggregate and
// FilteredGroupBy.
func (q *Query) SetApply(statement string) { q.apply = statement }

// FetchXML returns the current FetchXML query string.
func (q *Query) FetchXML() string { return q.fetchXML }

// SetFetchXML sets a query in the FetchXML query language, built by hand or
// with FetchXMLBuilder. The table must be set; combining FetchXML with
// other query options is the caller's responsibility and rarely what the
// service expects.
func (q *Query) SetFetchXML(query string) { q.fetchXML = query }

// Headers returns the request headers added on top of the per-method
// defaults. Caller headers take precedence over defaults.
func (q *Query) Headers() map[string]string { return q.headers }

// SetHeader sets a request header for subsequent requests.
func (q *Query) SetHeader(key, value string) { q.headers[key] = value }

// ShowAnnotations reports whether annotations are requested for returned
// data.
func (q *Query) ShowAnnotations() bool {
	return q.headers["Prefer"] == `odata.include-annotations="*"`
}

// SetShowAnnotations toggles annotations for returned data, e.g. enum
// values and GUID names. Helpful for development and debugging.
func (q *Query) SetShowAnnotations(enabled bool) {
	if enabled {
		q.headers["Prefer"] = `odata.include-annotations="*"`
	} else if q.ShowAnnotations() {
		delete(q.headers, "Prefer")
	}
}

// SuppressDuplicateDetection reports whether duplicate detection is
// suppressed on POST and PATCH requests.
func (q *Query) SuppressDuplicateDetection() bool {
	return q.headers["MSCRM.SuppressDuplicateDetection"] == "true"
}

// SetSuppressDuplicateDetection allows creating duplicate records if the
// service detects one during a POST or PATCH request.
func (q *Query) SetSuppressDuplicateDetection(enabled bool) {
	if enabled {
		q.headers["MSCRM.SuppressDuplicateDetection"] = "true"
	} else {
		q.headers["MSCRM.SuppressDuplicateDetection"] = "false"
	}
}

// Pagesize returns the current page size.
func (q *Query) Pagesize() int { return q.pagesize }

// SetPagesize sets the number of rows returned in a page, between 1 and
// MaxPagesize.
func (q *Query) SetPagesize(value int) error {
	if value < 1 {
		return fmt.Errorf("%w: got %d", ErrPagesizeTooSmall, value)
	}

	if value > MaxPagesize {
		return fmt.Errorf("%w: max %d, got %d", ErrPagesizeTooLarge, MaxPagesize, value)
	}

	q.pagesize = value

	return nil
}

// URL assembles the full request URL for the query under the given API
// root, leaving out empty options. When a reference target is set with
// SetAddRefToProperty, query options are left out entirely.
func (q *Query) URL(baseURL string) string {
	result := strings.TrimRight(baseURL, "/") + "/" + q.table

	if q.rowID != "" {
		result += "(" + q.rowID + ")"
	}

	if q.preExpand != "" {
		result += "/" + q.preExpand
	}

	if q.action != "" {
		if !strings.HasSuffix(result, "/") {
			result += "/"
		}

		result += q.action
	}

	if q.addRefToProperty != "" {
		return result + "/" + q.addRefToProperty + "/$ref"
	}

	return result + q.CompileOptions()
}

// CompileOptions renders the query options into a "?..." URL suffix, or an
// empty string if no options are set. Clauses appear in a fixed order:
// fetchXml, $expand, $apply, $select, $filter, $top, $count, $orderby.
func (q *Query) CompileOptions() string {
	clauses := []string{
		compileFetchXML(q.fetchXML),
		compileExpand(q.expand),
		compileApply(q.apply),
		compileSelect(q.selected),
		compileFilter(q.filter),
		compileTop(q.top),
		compileCount(q.count),
		compileOrderBy(q.orderby),
	}

	parts := make([]string, 0, len(clauses))

	for _, clause := range clauses {
		if clause != "" {
			parts = append(parts, clause)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	return "?" + strings.Join(parts, "&")
}

func compileSelect(columns []string) string {
	if len(columns) == 0 {
		return ""
	}

	return "$select=" + strings.Join(columns, ",")
}

func compileFilter(filter Filter) string {
	if filter.IsZero() {
		return ""
	}

	return "$filter=" + filter.String()
}

func compileOrderBy(items []OrderBy) string {
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Column+" "+string(item.Direction))
	}

	return "$orderby=" + strings.Join(parts, ",")
}

func compileTop(number int) string {
	if number == 0 {
		return ""
	}

	return fmt.Sprintf("$top=%d", number)
}

func compileCount(enabled bool) string {
	if !enabled {
		return ""
	}

	return "$count=true"
}

func compileApply(statement string) string {
	if statement == "" {
		return ""
	}

	return "$apply=" + statement
}

// The FetchXML document is carried percent-encoded in its entirety,
// including characters the query string would otherwise allow.
func compileFetchXML(query string) string {
	if query == "" {
		return ""
	}

	return "fetchXml=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

func compileExpand(items []ExpandItem) string {
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items))

	for _, item := range items {
		if item.Options.isZero() {
			parts = append(parts, item.Property)

			continue
		}

		options := item.Options
		sub := make([]string, 0, 5)

		if len(options.Select) > 0 {
			sub = append(sub, compileSelect(options.Select))
		}

		if !options.Filter.IsZero() {
			sub = append(sub, compileFilter(options.Filter))
		}

		if options.Top != 0 {
			sub = append(sub, compileTop(options.Top))
		}

		if len(options.OrderBy) > 0 {
			sub = append(sub, compileOrderBy(options.OrderBy))
		}

		if len(options.Expand) > 0 {
			sub = append(sub, compileExpand(options.Expand))
		}

		parts = append(parts, item.Property+"("+strings.Join(sub, ";")+")")
	}

	return "$expand=" + strings.Join(parts, ",")
}

// ParseExpand converts a dynamically built expand description, e.g. one
// decoded from JSON, into typed expand items. Valid option names inside an
// expand description are "select", "filter", "top", "orderby" and
// "expand"; anything else is an error naming the offending key. Properties
// are emitted in lexical order so the result is deterministic.
func ParseExpand(items map[string]any) ([]ExpandItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	properties := make([]string, 0, len(items))
	for property := range items {
		properties = append(properties, property)
	}

	sort.Strings(properties)

	result := make([]ExpandItem, 0, len(properties))

	for _, property := range properties {
		options, err := parseExpandOptions(items[property])
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", property, err)
		}

		result = append(result, ExpandItem{Property: property, Options: options})
	}

	return result, nil
}

func parseExpandOptions(value any) (*ExpandOptions, error) {
	if value == nil {
		return nil, nil
	}

	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an option map, got %T", ErrInvalidExpandValue, value)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	options := &ExpandOptions{}

	for name, optionValue := range raw {
		var err error

		switch name {
		case "select":
			options.Select, err = toStringSlice(optionValue)
		case "filter":
			var clauses []string

			clauses, err = toStringSlice(optionValue)
			options.Filter = And(clauses...)
		case "top":
			options.Top, err = toInt(optionValue)
		case "orderby":
			options.OrderBy, err = toOrderBy(optionValue)
		case "expand":
			var nested map[string]any

			nested, ok = optionValue.(map[string]any)
			if !ok {
				err = fmt.Errorf("%w: expected a map, got %T", ErrInvalidExpandValue, optionValue)

				break
			}

			options.Expand, err = ParseExpand(nested)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidExpandKey, name)
		}

		if err != nil {
			return nil, fmt.Errorf("option %q: %w", name, err)
		}
	}

	return options, nil
}

func toStringSlice(value any) ([]string, error) {
	switch typed := value.(type) {
	case []string:
		return typed, nil
	case []any:
		result := make([]string, 0, len(typed))

		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected a string, got %T", ErrInvalidExpandValue, item)
			}

			result = append(result, text)
		}

		return result, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of strings, got %T", ErrInvalidExpandValue, value)
	}
}

func toInt(value any) (int, error) {
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		return int(typed), nil
	default:
		return 0, fmt.Errorf("%w: expected a number, got %T", ErrInvalidExpandValue, value)
	}
}

func toOrderBy(value any) ([]OrderBy, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a column to direction map, got %T", ErrInvalidExpandValue, value)
	}

	columns := make([]string, 0, len(raw))
	for column := range raw {
		columns = append(columns, column)
	}

	sort.Strings(columns)

	result := make([]OrderBy, 0, len(columns))

	for _, column := range columns {
		direction, ok := raw[column].(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a direction string, got %T", ErrInvalidExpandValue, raw[column])
		}

		if Direction(direction) != Ascending && Direction(direction) != Descending {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidDirection, direction)
		}

		result = append(result, OrderBy{Column: column, Direction: Direction(direction)})
	}

	return result, nil
}
