package sqs

// ChatMessage is an operator message relayed by the chat gateway to the inbound queue.
type ChatMessage struct {
	ChatID    int64  `json:"chat_id"`
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Text      string `json:"text"`
}

// ChatReply is a message for the gateway to deliver. Keyboard holds reply buttons, one per row.
type ChatReply struct {
	ChatID   int64    `json:"chat_id"`
	Text     string   `json:"text"`
	Keyboard []string `json:"keyboard,omitempty"`
}
