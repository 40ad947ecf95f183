package soliscloud

type query struct {
	pageNo    int
	pageSize  int
	nmiCode   string
	stationID string
	params    map[string]any
}

type QueryOption func(*query)

func newQuery(pageSize int, opts []QueryOption) *query {
	q := &query{
		pageNo:   1,
		pageSize: pageSize,
		params:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// body returns a fresh request body holding the extra parameters.
func (q *query) body() map[string]any {
	body := make(map[string]any, len(q.params)+2)
	for k, v := range q.params {
		body[k] = v
	}
	return body
}

// WithPageNo sets the first page requested by a listing.
func WithPageNo(pageNo int) QueryOption {
	return func(q *query) {
		if pageNo > 0 {
			q.pageNo = pageNo
		}
	}
}

func WithPageSize(pageSize int) QueryOption {
	return func(q *query) {
		if pageSize > 0 {
			q.pageSize = pageSize
		}
	}
}

func WithNmiCode(nmiCode string) QueryOption {
	return func(q *query) {
		q.nmiCode = nmiCode
	}
}

func WithStationID(stationID string) QueryOption {
	return func(q *query) {
		q.stationID = stationID
	}
}

// WithParam adds an arbitrary field to the request body.
func WithParam(key string, value any) QueryOption {
	return func(q *query) {
		q.params[key] = value
	}
}
