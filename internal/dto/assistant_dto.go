package dto

// AttachmentDTO is one inbound file. Data carries the raw bytes (base64 over
// JSON); webhook deliveries populate MediaURL instead and the service
// downloads it.
type AttachmentDTO struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Data     []byte `json:"data,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
}

type SendMessageRequest struct {
	OwnerId     string          `json:"owner_id" validate:"required"`
	Message     string          `json:"message"`
	Attachments []AttachmentDTO `json:"attachments,omitempty" validate:"max=10"`
}

type SendMessageResponse struct {
	Reply string `json:"reply"`
}

type StoreKnowledgeRequest struct {
	OwnerId     string          `json:"owner_id" validate:"required"`
	Content     string          `json:"content"`
	Attachments []AttachmentDTO `json:"attachments,omitempty" validate:"max=10"`
}

type StoreKnowledgeResponse struct {
	Stored int    `json:"stored"`
	Reply  string `json:"reply"`
}
