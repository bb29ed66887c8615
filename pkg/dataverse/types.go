package dataverse

// Row is a single record returned by the Web API.
type Row = map[string]any

// GetResponse is the result of a GET request.
type GetResponse struct {
	// Data contains the returned rows. A single-row lookup is returned as a
	// list of one row.
	Data []Row `json:"data"                yaml:"data"`
	// Count is the value of the "@odata.count" annotation, if requested.
	Count *int `json:"count,omitempty"     yaml:"count,omitempty"`
	// NextLink is the value of the "@odata.nextLink" annotation, if more
	// rows are available than were returned.
	NextLink *string `json:"next_link,omitempty" yaml:"next_link,omitempty"`
}

// PostResponse is the result of a POST request. Data is empty when the
// service responds with 204 No Content.
type PostResponse struct {
	Data Row `json:"data" yaml:"data"`
}

// PatchResponse is the result of a PATCH request. Data is empty when the
// service responds with 204 No Content.
type PatchResponse struct {
	Data Row `json:"data" yaml:"data"`
}

// PaginationRules controls how many continuation pages are fetched for a
// query, and how nested collections inside the returned rows are paginated.
type PaginationRules struct {
	// Pages is the remaining number of extra pages to fetch. Zero stops
	// pagination, a negative value fetches all available pages.
	Pages int
	// Children maps expanded collection names to the rules applied to
	// their "{name}@odata.nextLink" continuation links.
	Children map[string]*PaginationRules
}

// Logger is the interface for logging within the client.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
