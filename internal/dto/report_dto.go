package dto

type CreateReportRequest struct {
	Target string `json:"target"`
	Text   string `json:"text"`
}

// ReplyRequest is the author-scoped answer. ID zero means "my latest active
// report".
type ReplyRequest struct {
	ID   int64  `json:"id,omitempty"`
	Text string `json:"text"`
}

type AnswerRequest struct {
	Text string `json:"text"`
}

type CloseRequest struct {
	Reason string `json:"reason"`
}

type QuickReplyRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
