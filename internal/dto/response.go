package dto

// APIResponse is the uniform envelope returned by every endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Status     bool   `json:"status"`
	Message    string `json:"message"`
	Heading    string `json:"heading"`
	Data       any    `json:"data"`
}

// Pagination carries offset-pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
	NextPage   *int  `json:"nextPage"`
	PrevPage   *int  `json:"prevPage"`
}

// Success wraps data in the standard envelope.
func Success(data any, message, heading string, statusCode int) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Status:     true,
		Message:    message,
		Heading:    heading,
		Data:       data,
	}
}

// Error wraps a failure message in the standard envelope.
func Error(message, heading string, statusCode int) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Status:     false,
		Message:    message,
		Heading:    heading,
		Data:       nil,
	}
}

// NewPagination derives the pagination metadata for a page of results.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// Paginated wraps a page of items under entityKey together with its
// pagination metadata, in the standard envelope.
func Paginated(items any, entityKey string, p Pagination, message, heading string) APIResponse {
	return Success(map[string]any{
		entityKey:    items,
		"pagination": p,
	}, message, heading, 200)
}
