package sqs

import (
	"context"
	"log/slog"

	"github.com/iyhunko/price-monitor/internal/conversation"
)

// Conversation turns one chat message into replies.
type Conversation interface {
	Handle(ctx context.Context, msg conversation.Message) []conversation.Reply
}

// ReplyPublisher delivers replies back to the chat.
type ReplyPublisher interface {
	PublishReply(ctx context.Context, reply ChatReply) error
}

// Bridge feeds inbound chat messages to the conversation and publishes every reply.
type Bridge struct {
	conversation Conversation
	publisher    ReplyPublisher
}

func NewBridge(conv Conversation, publisher ReplyPublisher) *Bridge {
	return &Bridge{
		conversation: conv,
		publisher:    publisher,
	}
}

// HandleMessage never fails: once Handle returns, the step is applied, and redelivery would repeat it.
// Replies that cannot be published are logged and dropped.
func (b *Bridge) HandleMessage(ctx context.Context, msg ChatMessage) error {
	replies := b.conversation.Handle(ctx, conversation.Message{
		ChatID:    msg.ChatID,
		UserID:    msg.UserID,
		FirstName: msg.FirstName,
		Text:      msg.Text,
	})

	for _, r := range replies {
		err := b.publisher.PublishReply(ctx, ChatReply{ChatID: r.ChatID, Text: r.Text, Keyboard: r.Keyboard})
		if err != nil {
			slog.Error("failed to publish chat reply", slog.Int64("chat_id", r.ChatID), slog.Any("err", err))
		}
	}
	return nil
}
