package constant

// Replies returned by the session state machine. The transport layer decides
// how to deliver them; nothing here is WhatsApp- or web-specific.
const (
	ReplyOptions = "Please choose an option:\n\n" +
		"1. Store in Knowledge Base\n" +
		"2. Chat with AI"

	ReplyStoreBanner = "Store mode activated. Send me the text or document you want to store. Type 'end' to finish."

	ReplyChatBanner = "Chat mode activated. Ask me any question. Type 'end' to finish."

	ReplySessionEnded = "Session ended.\n\n" + ReplyOptions

	ReplyStored = "Stored successfully! Type 'end' to finish or send more text/files."

	ReplyStoreFailed = "Failed to save. Try again."

	ReplyNothingFound = "I couldn't find any relevant documents in your knowledge base matching that query."

	ReplyCompletionFallback = "I'm having trouble reaching the AI service right now. Please try again shortly."
)

// Placeholder stored when text extraction fails. The file is still saved, and
// the placeholder is embedded like any other content.
const ExtractionFailedPlaceholder = "[extraction failed - file saved without text extraction]"

const (
	EndCommand   = "end"
	StoreCommand = "store"
	ChatCommand  = "chat"
)
