package dto

// APIResponse is the envelope returned by every endpoint, success or failure.
// Stack is only populated outside release mode.
type APIResponse struct {
	Success    bool        `json:"success" example:"true"`
	StatusCode int         `json:"statusCode" example:"200"`
	Message    string      `json:"message" example:"Chapter added successfully"`
	Data       interface{} `json:"data"`
	Stack      string      `json:"stack,omitempty"`
}

// NewSuccessResponse builds a success envelope
func NewSuccessResponse(statusCode int, message string, data interface{}) APIResponse {
	return APIResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// NewErrorResponse builds a failure envelope with null data
func NewErrorResponse(statusCode int, message string) APIResponse {
	return APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	PageSize    int   `json:"pageSize" example:"20"`
	TotalItems  int64 `json:"totalItems" example:"45"`
}

// PaginatedData wraps a page of items
type PaginatedData struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// DeletedResponse is returned after a successful delete
type DeletedResponse struct {
	ID string `json:"id" example:"5b0f3c1e-6a0e-4d56-9a8e-0c7c2b1a4f11"`
}
