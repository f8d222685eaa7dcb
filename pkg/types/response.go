package types

// Envelope is the body shape every endpoint responds with.
type Envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       any             `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Errors     []FieldError    `json:"errors,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Debug      *DebugInfo      `json:"debug,omitempty"`
}

// FieldError names one offending input value by its dotted path,
// e.g. body.address.city or query.limit.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type PaginationMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// DebugInfo is only attached outside production when error details are enabled.
type DebugInfo struct {
	Error string   `json:"error"`
	Chain []string `json:"chain,omitempty"`
}
