package mocks

import (
	"context"
	"time"
)

// MockExtractionClient is a mock implementation of ExtractionClient
type MockExtractionClient struct {
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Calls        int
}

func (m *MockExtractionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}
	return "{}", nil
}

// MockPrinter is a mock implementation of Printer
type MockPrinter struct {
	PrintFunc func(ctx context.Context, orderID, ticket string) error
	Printed   []string
}

func (m *MockPrinter) Print(ctx context.Context, orderID, ticket string) error {
	m.Printed = append(m.Printed, orderID)
	if m.PrintFunc != nil {
		return m.PrintFunc(ctx, orderID, ticket)
	}
	return nil
}

// MockEmailProvider is a mock implementation of EmailProvider
type MockEmailProvider struct {
	SendFunc func(ctx context.Context, to, subject, body string, isHTML bool) error
	Sent     []string
}

func (m *MockEmailProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	m.Sent = append(m.Sent, subject)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body, isHTML)
	}
	return nil
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", nil
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockCache) Ping() error { return nil }

func (m *MockCache) Close() error { return nil }
