package dto

// ChatResponse is the success envelope for POST /chat.
type ChatResponse struct {
	Answer string `json:"answer"`
	Status string `json:"status"`
}

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// IndexResponse describes the service on GET /.
type IndexResponse struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}
