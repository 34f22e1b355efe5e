package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldData    = "data"
)

// List Query Parameters
const (
	QueryParamLimit      = "limit"
	QueryParamOffset     = "offset"
	QueryParamName       = "name"
	QueryParamSecondName = "secondname"
	QueryParamEmail      = "email"
)

// List Query Bounds
const (
	MinLimit  = 10
	MaxLimit  = 500
	MinOffset = 0
)

// ClampLimit forces limit into the allowed [MinLimit, MaxLimit] window.
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampOffset forces offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < MinOffset {
		return MinOffset
	}
	return offset
}

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
