package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse is the envelope for mutations that return no resource.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// bulkRequest is the shared action-coded body for bulk endpoints:
// one action applied to a set of entity ids. The action vocabulary and
// the non-empty id set are enforced by the service layer.
type bulkRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action" validate:"required"`
}

// bulkResponse reports the outcome of a bulk action.
type bulkResponse struct {
	Success   bool  `json:"success"`
	Requested int   `json:"requested"`
	Matched   int64 `json:"matched"`
}

// paginationResponse is the shared pagination envelope on list responses.
type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
