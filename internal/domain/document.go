package domain

// DocumentSource identifies where a stored document came from.
type DocumentSource string

const (
	DocumentSourceChat    DocumentSource = "chat"
	DocumentSourceProject DocumentSource = "project"
	DocumentSourceThread  DocumentSource = "thread"
)

// Document is a unit of stored text with a deterministic id and provenance tag.
// Chunked messages use "<messageId>_<index>", project summaries "proj_<projectId>",
// and thread messages "thread_<threadId>_<messageId>".
type Document struct {
	ID     string
	Text   string
	Source DocumentSource
}

// Vector is the fixed-dimension embedding of a document's text. Data always has
// exactly Dim entries; the serialized form is raw little-endian float32.
type Vector struct {
	ID   string
	Dim  int
	Data []float32
}

// isValidDocumentSource checks if a DocumentSource is one of the known values.
func isValidDocumentSource(s DocumentSource) bool {
	switch s {
	case DocumentSourceChat, DocumentSourceProject, DocumentSourceThread:
		return true
	}
	return false
}

// ValidateDocument validates a Document instance.
func ValidateDocument(d *Document) error {
	if d == nil {
		return NewDomainError(ErrCodeValidation, "document cannot be nil")
	}
	if d.ID == "" {
		return NewDomainError(ErrCodeValidation, "document ID is required")
	}
	if !isValidDocumentSource(d.Source) {
		return ErrInvalidDocumentSource
	}
	return nil
}
