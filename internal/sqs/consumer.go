package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// MessageHandler processes one decoded chat message. A returned error leaves the message on the queue.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg ChatMessage) error
}

// Consumer long-polls the inbound chat queue.
type Consumer struct {
	client   ConsumerAPI
	queueURL string
	handler  MessageHandler
}

func NewConsumer(client ConsumerAPI, queueURL string, handler MessageHandler) *Consumer {
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		handler:  handler,
	}
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting chat consumer", slog.String("queue_url", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping chat consumer")
			return ctx.Err()
		default:
			if err := c.receiveMessages(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("failed to receive chat messages", slog.Any("err", err))
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	// messages from one poll are handled in order so a flow's steps stay sequential
	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("failed to process chat message", slog.Any("err", err))
			continue
		}

		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("failed to delete chat message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("message body is nil")
	}

	var chatMsg ChatMessage
	if err := json.Unmarshal([]byte(*message.Body), &chatMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	slog.Debug("received chat message",
		slog.Int64("chat_id", chatMsg.ChatID),
		slog.Int64("user_id", chatMsg.UserID),
	)

	if err := c.handler.HandleMessage(ctx, chatMsg); err != nil {
		return fmt.Errorf("failed to handle message: %w", err)
	}
	return nil
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
