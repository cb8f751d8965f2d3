package meshlog

// logRequestBody is the ingestion payload. Every field is optional.
type logRequestBody struct {
	Region    string            `json:"region"`
	Timestamp string            `json:"timestamp"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Query     string            `json:"query"`
	Headers   map[string]string `json:"headers"`
}
