package models

// TraceName identifies the task an execution request belongs to.
type TraceName string

const (
	TraceLanguageDetect TraceName = "Language Detect"
	TraceTranslator     TraceName = "Translator"
	TraceSummaryTitle   TraceName = "Summary Title"
)

// TracePayload is passed through to the chat service for observability.
type TracePayload struct {
	SessionID string    `json:"sessionId,omitempty"`
	TopicID   string    `json:"topicId,omitempty"`
	TraceName TraceName `json:"traceName,omitempty"`
}
