package dataverse

import "context"

// Client executes queries against the Dataverse Web API. A client carries
// one current query at a time: describe the request through Query, execute
// it with one of the verbs, then Reset before building the next request.
type Client interface {
	// Query returns the current query for modification.
	Query() *Query

	// Reset clears the current query. Request headers are cleared too, the
	// pagesize is kept.
	Reset()

	// CurrentQuery compiles the current query into the full request URL
	// without executing it.
	CurrentQuery() string

	// RequestCount reports how many Web API requests the client has made,
	// pagination requests included.
	RequestCount() int64

	// Get executes the current query as a GET request.
	Get(ctx context.Context, options *GetOptions) (*GetResponse, error)

	// Post executes the current query as a POST request creating a row.
	Post(ctx context.Context, data Row, options *PostOptions) (*PostResponse, error)

	// Patch executes the current query as a PATCH request updating the row
	// addressed by the query.
	Patch(ctx context.Context, data Row, options *PatchOptions) (*PatchResponse, error)

	// Delete executes the current query as a DELETE request.
	Delete(ctx context.Context, options *DeleteOptions) error
}

// GetOptions adjust the behavior of a single GET request. A nil options
// value uses the defaults.
type GetOptions struct {
	// NotFoundOK makes a no-results response return an empty GetResponse
	// instead of a not found error.
	NotFoundOK bool

	// Pagination fetches continuation pages beyond the first response.
	Pagination *PaginationRules

	// SimplifyErrors collapses any error into a generic service error with
	// SimplifiedErrorMessage. Useful for hiding error details from
	// frontend users.
	SimplifyErrors bool

	// RaiseSeparately lists error kinds excluded from simplification, so
	// they can get separate handling.
	RaiseSeparately []error
}

// PostOptions adjust the behavior of a single POST request.
type PostOptions struct {
	// SimplifyErrors collapses any error into a generic service error with
	// SimplifiedErrorMessage.
	SimplifyErrors bool

	// RaiseSeparately lists error kinds excluded from simplification.
	RaiseSeparately []error
}

// PatchOptions adjust the behavior of a single PATCH request.
type PatchOptions struct {
	// SimplifyErrors collapses any error into a generic service error with
	// SimplifiedErrorMessage.
	SimplifyErrors bool

	// RaiseSeparately lists error kinds excluded from simplification.
	RaiseSeparately []error
}

// DeleteOptions adjust the behavior of a single DELETE request.
type DeleteOptions struct {
	// SimplifyErrors collapses any error into a generic service error with
	// SimplifiedErrorMessage.
	SimplifyErrors bool

	// RaiseSeparately lists error kinds excluded from simplification.
	RaiseSeparately []error
}
