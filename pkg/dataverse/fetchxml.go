package dataverse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Limits imposed by the Dataverse FetchXML engine.
const (
	// MaxLinkedTables is the maximum number of link-entity elements in one
	// document, counted across all nesting levels.
	MaxLinkedTables = 10

	// MaxFilterConditions is the maximum number of conditions on a single
	// filter element.
	MaxFilterConditions = 500
)

// Static errors for err113 compliance.
var (
	ErrTooManyLinkedTables      = errors.New("too many linked tables")
	ErrTooManyConditions        = errors.New("too many conditions")
	ErrAttributesAlreadyDefined = errors.New("individual attributes defined, cannot add all attributes")
	ErrAllAttributesDefined     = errors.New("all attributes defined, cannot add individual attributes")
	ErrEntityRedefined          = errors.New("entity already defined, only one entity per query is allowed")
	ErrInvalidFetchOperator     = errors.New("invalid fetchxml operator")
)

// FetchXMLBuilder builds FetchXML query documents. Construct one with
// NewFetchXMLBuilder, describe the query through the returned sub-builders
// and call Build on any of them to serialize the document.
//
// Errors made while describing the query are recorded and reported by
// Build, so call chains don't need error checks at every step.
//
// XML schema:
// https://docs.microsoft.com/en-us/powerapps/developer/data-platform/fetchxml-schema
type FetchXMLBuilder struct {
	attrs []xmlAttr
	order []xmlAttr

	entity *FetchEntityBuilder

	linkedTables int
	err          error
}

// FetchXMLOptions are the attributes of the fetch element. Zero values are
// omitted from the document.
type FetchXMLOptions struct {
	// Mapping should be "logical" for 3rd parties.
	Mapping string
	// Version information.
	Version string
	// Page is the page number when paging a request.
	Page int
	// Count is the number of items per page when paging a request.
	Count int
	// Top limits the number of items in the query.
	Top int
	// Aggregate enables grouping and aggregation in the query.
	Aggregate *bool
	// Distinct removes duplicate values from the resultset.
	Distinct *bool
	// PagingCookie is the paging cookie used in paging.
	PagingCookie string
	// UTCOffset is the UTC offset in minutes.
	UTCOffset *int
	// OutputFormat of the query.
	OutputFormat string
	// MinActiveRowVersion inclusion.
	MinActiveRowVersion *bool
	// ReturnTotalRecordCount asks for the total record count annotation.
	ReturnTotalRecordCount *bool
	// NoLock reads without holding locks.
	NoLock *bool
}

// NewFetchXMLBuilder creates a builder for a new FetchXML document.
func NewFetchXMLBuilder(options FetchXMLOptions) *FetchXMLBuilder {
	builder := &FetchXMLBuilder{}

	builder.attrs = appendStringAttr(builder.attrs, "mapping", options.Mapping)
	builder.attrs = appendStringAttr(builder.attrs, "version", options.Version)
	builder.attrs = appendIntAttr(builder.attrs, "page", options.Page)
	builder.attrs = appendIntAttr(builder.attrs, "count", options.Count)
	builder.attrs = appendIntAttr(builder.attrs, "top", options.Top)
	builder.attrs = appendBoolAttr(builder.attrs, "aggregate", options.Aggregate)
	builder.attrs = appendBoolAttr(builder.attrs, "distinct", options.Distinct)
	builder.attrs = appendStringAttr(builder.attrs, "paging-cookie", options.PagingCookie)

	if options.UTCOffset != nil {
		builder.attrs = append(builder.attrs, xmlAttr{"utc-offset", strconv.Itoa(*options.UTCOffset)})
	}

	builder.attrs = appendStringAttr(builder.attrs, "output-format", options.OutputFormat)
	builder.attrs = appendBoolAttr(builder.attrs, "min-active-row-version", options.MinActiveRowVersion)
	builder.attrs = appendBoolAttr(builder.attrs, "returntotalrecordcount", options.ReturnTotalRecordCount)
	builder.attrs = appendBoolAttr(builder.attrs, "no-lock", options.NoLock)

	return builder
}

// FetchEntityOptions are the attributes of the entity element.
type FetchEntityOptions struct {
	// Name of the entity table.
	Name string
	// EnablePrefiltering enables pre-filtering.
	EnablePrefiltering *bool
	// PrefilterParameterName is the pre-filtering parameter name.
	PrefilterParameterName string
}

// AddEntity sets the entity the query concerns. Only one entity per query
// is allowed, a second call records an error and its result is not part of
// the document.
func (b *FetchXMLBuilder) AddEntity(options FetchEntityOptions) *FetchEntityBuilder {
	entity := &FetchEntityBuilder{root: b}
	entity.attrs = append(entity.attrs, xmlAttr{"name", options.Name})
	entity.attrs = appendBoolAttr(entity.attrs, "enableprefiltering", options.EnablePrefiltering)
	entity.attrs = appendStringAttr(entity.attrs, "prefilterparametername", options.PrefilterParameterName)

	if b.entity != nil {
		b.fail(ErrEntityRedefined)

		return entity
	}

	b.entity = entity

	return entity
}

// Order applies ordering for the view. This is for the Reports view only.
func (b *FetchXMLBuilder) Order(options FetchOrderOptions) *FetchXMLBuilder {
	b.order = options.attrs()

	return b
}

// Build serializes the document. The builder is not modified, so Build can
// be called repeatedly and the tree extended in between.
func (b *FetchXMLBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	var doc strings.Builder

	children := b.entity != nil || b.order != nil
	writeOpenTag(&doc, "fetch", b.attrs, !children)

	if b.entity != nil {
		b.entity.write(&doc)
	}

	if b.order != nil {
		writeOpenTag(&doc, "order", b.order, true)
	}

	if children {
		writeCloseTag(&doc, "fetch")
	}

	return doc.String(), nil
}

func (b *FetchXMLBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *FetchXMLBuilder) addLinkedTable() {
	b.linkedTables++
	if b.linkedTables > MaxLinkedTables {
		b.fail(fmt.Errorf("%w: more than %d", ErrTooManyLinkedTables, MaxLinkedTables))
	}
}

// FetchOrderOptions are the attributes of an order element.
type FetchOrderOptions struct {
	// Attribute to order by.
	Attribute string
	// Alias of the attribute.
	Alias string
	// Descending order.
	Descending *bool
}

func (o FetchOrderOptions) attrs() []xmlAttr {
	attrs := []xmlAttr{{"attribute", o.Attribute}}
	attrs = appendStringAttr(attrs, "alias", o.Alias)
	attrs = appendBoolAttr(attrs, "descending", o.Descending)

	return attrs
}

// FetchAttributeOptions are the attributes of an attribute element.
type FetchAttributeOptions struct {
	// Name of the attribute to add.
	Name string
	// Alias to expose the attribute under.
	Alias string
	// Aggregate function to apply, e.g. "sum" or "countcolumn".
	Aggregate string
	// GroupBy groups the resultset by this attribute.
	GroupBy *bool
	// Distinct removes duplicate values from the resultset.
	Distinct *bool
	// DateGrouping for date attributes, e.g. "month" or "fiscal-period".
	DateGrouping string
	// UserTimezone applies the user's timezone.
	UserTimezone *bool
	// AddedBy metadata.
	AddedBy string
	// Build number.
	Build string
}

func (o FetchAttributeOptions) attrs() []xmlAttr {
	attrs := []xmlAttr{{"name", o.Name}}
	attrs = appendStringAttr(attrs, "alias", o.Alias)
	attrs = appendStringAttr(attrs, "aggregate", o.Aggregate)
	attrs = appendBoolAttr(attrs, "groupby", o.GroupBy)
	attrs = appendBoolAttr(attrs, "distinct", o.Distinct)
	attrs = appendStringAttr(attrs, "dategrouping", o.DateGrouping)
	attrs = appendBoolAttr(attrs, "usertimezone", o.UserTimezone)
	attrs = appendStringAttr(attrs, "addedby", o.AddedBy)
	attrs = appendStringAttr(attrs, "build", o.Build)

	return attrs
}

// FetchLinkedEntityOptions are the attributes of a link-entity element.
type FetchLinkedEntityOptions struct {
	// Name of the table to link to.
	Name string
	// To is the navigation property to link the table with.
	To string
	// From is the attribute in the linked table to link the table from.
	From string
	// Alias to expose the linked entity under.
	Alias string
	// LinkType describes how the link is made, e.g. "outer" or "inner".
	LinkType string
	// Visible in the UI.
	Visible *bool
	// Intersect marks the link as an intersection table.
	Intersect *bool
	// EnablePrefiltering enables pre-filtering.
	EnablePrefiltering *bool
	// PrefilterParameterName is the pre-filtering parameter name.
	PrefilterParameterName string
}

func (o FetchLinkedEntityOptions) attrs() []xmlAttr {
	attrs := []xmlAttr{{"name", o.Name}, {"to", o.To}}
	attrs = appendStringAttr(attrs, "from", o.From)
	attrs = appendStringAttr(attrs, "alias", o.Alias)
	attrs = appendStringAttr(attrs, "link-type", o.LinkType)
	attrs = appendBoolAttr(attrs, "visible", o.Visible)
	attrs = appendBoolAttr(attrs, "intersect", o.Intersect)
	attrs = appendBoolAttr(attrs, "enableprefiltering", o.EnablePrefiltering)
	attrs = appendStringAttr(attrs, "prefilterparametername", o.PrefilterParameterName)

	return attrs
}

// FetchFilterOptions are the attributes of a filter element.
type FetchFilterOptions struct {
	// Type is the logical operator joining the filter's conditions, "and"
	// or "or". Empty defaults to "and".
	Type string
	// IsQuickFindFields marks the filter as a quick find filter.
	IsQuickFindFields *bool
	// OverrideQuickFindRecordLimitEnabled overrides the 10 000 record
	// quick find limit.
	OverrideQuickFindRecordLimitEnabled *bool
}

func (o FetchFilterOptions) attrs() []xmlAttr {
	filterType := o.Type
	if filterType == "" {
		filterType = "and"
	}

	attrs := []xmlAttr{{"type", filterType}}
	attrs = appendBoolAttr(attrs, "isquickfindfields", o.IsQuickFindFields)
	attrs = appendBoolAttr(attrs, "overridequickfindrecordlimitenabled", o.OverrideQuickFindRecordLimitEnabled)

	return attrs
}

// FetchConditionOptions are the attributes of a condition element.
type FetchConditionOptions struct {
	// Attribute to filter on.
	Attribute string
	// Operator to compare with.
	Operator FetchXMLOperator
	// Value for single-value operators, e.g. FetchEq.
	Value any
	// Values for multi-value operators, e.g. FetchIn.
	Values []any
	// ValueOf names a column to compare the attribute against instead of
	// a literal value.
	ValueOf string
	// Column to filter on.
	Column string
	// EntityName scopes the condition to a linked entity.
	EntityName string
	// Aggregate function.
	Aggregate string
	// RowAggregate, only "countchildren" is accepted by the service.
	RowAggregate string
	// Alias of the attribute.
	Alias string
	// UIName metadata.
	UIName string
	// UIType metadata.
	UIType string
	// UIHidden metadata, serialized as "1"/"0".
	UIHidden *bool
}

// FetchEntityBuilder describes the entity element of the document.
type FetchEntityBuilder struct {
	root  *FetchXMLBuilder
	attrs []xmlAttr
	order []xmlAttr

	allAttributes bool
	attributes    [][]xmlAttr
	filters       []*FetchFilterBuilder
	links         []*FetchLinkedEntityBuilder
}

// WithAllAttributes includes all attributes of the entity in the query.
// Mutually exclusive with AddAttribute.
func (e *FetchEntityBuilder) WithAllAttributes() *FetchEntityBuilder {
	if len(e.attributes) > 0 {
		e.root.fail(ErrAttributesAlreadyDefined)

		return e
	}

	e.allAttributes = true

	return e
}

// AddAttribute includes a single attribute of the entity in the query.
// Mutually exclusive with WithAllAttributes.
func (e *FetchEntityBuilder) AddAttribute(options FetchAttributeOptions) *FetchEntityBuilder {
	if e.allAttributes {
		e.root.fail(ErrAllAttributesDefined)

		return e
	}

	e.attributes = append(e.attributes, options.attrs())

	return e
}

// AddLinkedEntity links another table to the entity. The whole document
// can hold at most MaxLinkedTables linked entities.
func (e *FetchEntityBuilder) AddLinkedEntity(options FetchLinkedEntityOptions) *FetchLinkedEntityBuilder {
	e.root.addLinkedTable()

	link := &FetchLinkedEntityBuilder{root: e.root, parent: e, attrs: options.attrs()}
	e.links = append(e.links, link)

	return link
}

// Order applies ordering for the entity's attributes.
func (e *FetchEntityBuilder) Order(options FetchOrderOptions) *FetchEntityBuilder {
	e.order = options.attrs()

	return e
}

// Filter applies filtering to the entity's attributes.
func (e *FetchEntityBuilder) Filter(options FetchFilterOptions) *FetchFilterBuilder {
	filter := &FetchFilterBuilder{root: e.root, host: e, attrs: options.attrs()}
	e.filters = append(e.filters, filter)

	return filter
}

// Build serializes the document from the root builder.
func (e *FetchEntityBuilder) Build() (string, error) {
	return e.root.Build()
}

func (e *FetchEntityBuilder) addFilter(filter *FetchFilterBuilder) {
	e.filters = append(e.filters, filter)
}

func (e *FetchEntityBuilder) write(doc *strings.Builder) {
	children := len(e.attributes) > 0 || len(e.filters) > 0 || len(e.links) > 0 || e.order != nil
	writeOpenTag(doc, "entity", e.attrs, !children)

	if !children {
		return
	}

	for _, attribute := range e.attributes {
		writeOpenTag(doc, "attribute", attribute, true)
	}

	for _, filter := range e.filters {
		filter.write(doc)
	}

	for _, link := range e.links {
		link.write(doc)
	}

	if e.order != nil {
		writeOpenTag(doc, "order", e.order, true)
	}

	writeCloseTag(doc, "entity")
}

// FetchLinkedEntityBuilder describes a link-entity element.
type FetchLinkedEntityBuilder struct {
	root   *FetchXMLBuilder
	parent fetchLinkHost
	attrs  []xmlAttr
	order  []xmlAttr

	allAttributes bool
	attributes    [][]xmlAttr
	filters       []*FetchFilterBuilder
	links         []*FetchLinkedEntityBuilder
}

// fetchLinkHost is a node that can host link-entity children.
type fetchLinkHost interface {
	AddLinkedEntity(options FetchLinkedEntityOptions) *FetchLinkedEntityBuilder
	addFilter(filter *FetchFilterBuilder)
}

// WithAllAttributes includes all attributes of the linked entity in the
// query. Mutually exclusive with AddAttribute.
func (l *FetchLinkedEntityBuilder) WithAllAttributes() *FetchLinkedEntityBuilder {
	if len(l.attributes) > 0 {
		l.root.fail(ErrAttributesAlreadyDefined)

		return l
	}

	l.allAttributes = true

	return l
}

// AddAttribute includes a single attribute of the linked entity in the
// query. Mutually exclusive with WithAllAttributes.
func (l *FetchLinkedEntityBuilder) AddAttribute(options FetchAttributeOptions) *FetchLinkedEntityBuilder {
	if l.allAttributes {
		l.root.fail(ErrAllAttributesDefined)

		return l
	}

	l.attributes = append(l.attributes, options.attrs())

	return l
}

// AddNestedLinkedEntity links another table under this linked entity.
func (l *FetchLinkedEntityBuilder) AddNestedLinkedEntity(options FetchLinkedEntityOptions) *FetchLinkedEntityBuilder {
	l.root.addLinkedTable()

	link := &FetchLinkedEntityBuilder{root: l.root, parent: l, attrs: options.attrs()}
	l.links = append(l.links, link)

	return link
}

// AddLinkedEntity links another table to the parent of this linked entity,
// making the new link a sibling of this one.
func (l *FetchLinkedEntityBuilder) AddLinkedEntity(options FetchLinkedEntityOptions) *FetchLinkedEntityBuilder {
	return l.parent.AddLinkedEntity(options)
}

// Order applies ordering for the linked entity's attributes.
func (l *FetchLinkedEntityBuilder) Order(options FetchOrderOptions) *FetchLinkedEntityBuilder {
	l.order = options.attrs()

	return l
}

// Filter applies filtering to the linked entity's attributes.
func (l *FetchLinkedEntityBuilder) Filter(options FetchFilterOptions) *FetchFilterBuilder {
	filter := &FetchFilterBuilder{root: l.root, host: l, attrs: options.attrs()}
	l.filters = append(l.filters, filter)

	return filter
}

// Build serializes the document from the root builder.
func (l *FetchLinkedEntityBuilder) Build() (string, error) {
	return l.root.Build()
}

func (l *FetchLinkedEntityBuilder) addFilter(filter *FetchFilterBuilder) {
	l.filters = append(l.filters, filter)
}

func (l *FetchLinkedEntityBuilder) write(doc *strings.Builder) {
	children := len(l.attributes) > 0 || len(l.filters) > 0 || len(l.links) > 0 || l.order != nil
	writeOpenTag(doc, "link-entity", l.attrs, !children)

	if !children {
		return
	}

	for _, attribute := range l.attributes {
		writeOpenTag(doc, "attribute", attribute, true)
	}

	for _, filter := range l.filters {
		filter.write(doc)
	}

	for _, link := range l.links {
		link.write(doc)
	}

	if l.order != nil {
		writeOpenTag(doc, "order", l.order, true)
	}

	writeCloseTag(doc, "link-entity")
}

// FetchFilterBuilder describes a filter element holding conditions and,
// optionally, nested filters.
type FetchFilterBuilder struct {
	root  *FetchXMLBuilder
	host  fetchLinkHost
	attrs []xmlAttr

	conditions []fetchCondition
	filters    []*FetchFilterBuilder
}

type fetchCondition struct {
	attrs  []xmlAttr
	values []string
}

// AddCondition adds a filtering condition to the filter. A filter holds at
// most MaxFilterConditions conditions.
func (f *FetchFilterBuilder) AddCondition(options FetchConditionOptions) *FetchFilterBuilder {
	if len(f.conditions) == MaxFilterConditions {
		f.root.fail(fmt.Errorf("%w: more than %d", ErrTooManyConditions, MaxFilterConditions))

		return f
	}

	if !options.Operator.valid() {
		f.root.fail(fmt.Errorf("%w: %q", ErrInvalidFetchOperator, string(options.Operator)))

		return f
	}

	condition := fetchCondition{
		attrs: []xmlAttr{{"attribute", options.Attribute}, {"operator", string(options.Operator)}},
	}

	if options.Value != nil {
		condition.attrs = append(condition.attrs, xmlAttr{"value", fmt.Sprint(options.Value)})
	}

	for _, value := range options.Values {
		condition.values = append(condition.values, fmt.Sprint(value))
	}

	condition.attrs = appendStringAttr(condition.attrs, "valueof", options.ValueOf)
	condition.attrs = appendStringAttr(condition.attrs, "column", options.Column)
	condition.attrs = appendStringAttr(condition.attrs, "entityname", options.EntityName)
	condition.attrs = appendStringAttr(condition.attrs, "aggregate", options.Aggregate)
	condition.attrs = appendStringAttr(condition.attrs, "rowaggregate", options.RowAggregate)
	condition.attrs = appendStringAttr(condition.attrs, "alias", options.Alias)
	condition.attrs = appendStringAttr(condition.attrs, "uiname", options.UIName)
	condition.attrs = appendStringAttr(condition.attrs, "uitype", options.UIType)

	if options.UIHidden != nil {
		value := "0"
		if *options.UIHidden {
			value = "1"
		}

		condition.attrs = append(condition.attrs, xmlAttr{"uihidden", value})
	}

	f.conditions = append(f.conditions, condition)

	return f
}

// AddLinkedEntity links another table to the nearest ancestor entity of
// this filter. Filters cannot host links themselves.
func (f *FetchFilterBuilder) AddLinkedEntity(options FetchLinkedEntityOptions) *FetchLinkedEntityBuilder {
	return f.host.AddLinkedEntity(options)
}

// NestedFilter nests another filter inside this filter. Useful when a
// different logical operator is needed to group certain conditions.
func (f *FetchFilterBuilder) NestedFilter(options FetchFilterOptions) *FetchFilterBuilder {
	filter := &FetchFilterBuilder{root: f.root, host: f.host, attrs: options.attrs()}
	f.filters = append(f.filters, filter)

	return filter
}

// Filter adds a sibling filter to the entity hosting this filter.
func (f *FetchFilterBuilder) Filter(options FetchFilterOptions) *FetchFilterBuilder {
	filter := &FetchFilterBuilder{root: f.root, host: f.host, attrs: options.attrs()}
	f.host.addFilter(filter)

	return filter
}

// Build serializes the document from the root builder.
func (f *FetchFilterBuilder) Build() (string, error) {
	return f.root.Build()
}

func (f *FetchFilterBuilder) write(doc *strings.Builder) {
	children := len(f.conditions) > 0 || len(f.filters) > 0
	writeOpenTag(doc, "filter", f.attrs, !children)

	if !children {
		return
	}

	for _, filter := range f.filters {
		filter.write(doc)
	}

	for _, condition := range f.conditions {
		if len(condition.values) == 0 {
			writeOpenTag(doc, "condition", condition.attrs, true)

			continue
		}

		writeOpenTag(doc, "condition", condition.attrs, false)

		for _, value := range condition.values {
			doc.WriteString("<value>")
			doc.WriteString(escapeXMLText(value))
			doc.WriteString("</value>")
		}

		writeCloseTag(doc, "condition")
	}

	writeCloseTag(doc, "filter")
}

type xmlAttr struct {
	name  string
	value string
}

func appendStringAttr(attrs []xmlAttr, name, value string) []xmlAttr {
	if value == "" {
		return attrs
	}

	return append(attrs, xmlAttr{name, value})
}

func appendIntAttr(attrs []xmlAttr, name string, value int) []xmlAttr {
	if value == 0 {
		return attrs
	}

	return append(attrs, xmlAttr{name, strconv.Itoa(value)})
}

func appendBoolAttr(attrs []xmlAttr, name string, value *bool) []xmlAttr {
	if value == nil {
		return attrs
	}

	serialized := "false"
	if *value {
		serialized = "true"
	}

	return append(attrs, xmlAttr{name, serialized})
}

func writeOpenTag(doc *strings.Builder, name string, attrs []xmlAttr, selfClose bool) {
	doc.WriteString("<")
	doc.WriteString(name)

	for _, attr := range attrs {
		doc.WriteString(" ")
		doc.WriteString(attr.name)
		doc.WriteString(`="`)
		doc.WriteString(escapeXMLAttr(attr.value))
		doc.WriteString(`"`)
	}

	if selfClose {
		doc.WriteString("/>")

		return
	}

	doc.WriteString(">")
}

func writeCloseTag(doc *strings.Builder, name string) {
	doc.WriteString("</")
	doc.WriteString(name)
	doc.WriteString(">")
}

var (
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func escapeXMLAttr(value string) string {
	return xmlAttrEscaper.Replace(value)
}

func escapeXMLText(value string) string {
	return xmlTextEscaper.Replace(value)
}
