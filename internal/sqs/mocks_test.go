package sqs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/price-monitor/internal/conversation"
	"github.com/stretchr/testify/mock"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/123456789/test-queue"

// mockSQSConsumerClient is a mock implementation of the SQS client for consumer testing.
type mockSQSConsumerClient struct {
	receiveMessageFunc func(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	deleteMessageFunc  func(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	deleted            []string
}

func (m *mockSQSConsumerClient) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if m.receiveMessageFunc != nil {
		return m.receiveMessageFunc(ctx, params, optFns...)
	}
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil
}

func (m *mockSQSConsumerClient) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if params.ReceiptHandle != nil {
		m.deleted = append(m.deleted, *params.ReceiptHandle)
	}
	if m.deleteMessageFunc != nil {
		return m.deleteMessageFunc(ctx, params, optFns...)
	}
	return &sqs.DeleteMessageOutput{}, nil
}

// mockSQSClient is a mock implementation of the SQS client for publisher testing.
type mockSQSClient struct {
	sendMessageFunc func(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, params, optFns...)
	}
	return &sqs.SendMessageOutput{}, nil
}

type MockMessageHandler struct {
	mock.Mock
}

func (m *MockMessageHandler) HandleMessage(ctx context.Context, msg ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockConversation struct {
	mock.Mock
}

func (m *MockConversation) Handle(ctx context.Context, msg conversation.Message) []conversation.Reply {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]conversation.Reply)
}

type MockReplyPublisher struct {
	mock.Mock
}

func (m *MockReplyPublisher) PublishReply(ctx context.Context, reply ChatReply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}
