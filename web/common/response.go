package common

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Data: data,
	}
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// ValidationResponse carries per-field errors so the UI can surface them
// inline next to the offending inputs.
type ValidationResponse struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func NewValidationResponse(message string, fields map[string][]string) *ValidationResponse {
	return &ValidationResponse{
		Message: message,
		Fields:  fields,
	}
}

type Pagination struct {
	Total int64 `json:"total"`
}

type SearchResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewSearchResponse(data interface{}, total int64) *SearchResponse {
	return &SearchResponse{
		Data: data,
		Pagination: Pagination{
			Total: total,
		},
	}
}
