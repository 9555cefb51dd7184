package models

import "time"

// CreateResumeResponse represents the response from a resume compilation
// request. PDFFile is base64-encoded when a rendered format was requested.
type CreateResumeResponse struct {
	ID             string        `json:"id"`
	Format         OutputFormat  `json:"output_format"`
	TexFile        string        `json:"tex_file,omitempty"`
	PDFFile        string        `json:"pdf_file,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// TemplateListResponse lists the template ids registered at startup
type TemplateListResponse struct {
	Templates []string `json:"templates"`
	Default   string   `json:"default"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response. Log carries the external
// compiler's diagnostic output verbatim when compilation was attempted.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Log       string    `json:"log,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
