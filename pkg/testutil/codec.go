package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCodec implements archive.Codec for testing
type MockCodec struct {
	mock.Mock
}

// Extract records the call and returns the configured error
func (m *MockCodec) Extract(ctx context.Context, archivePath, destDir string) error {
	args := m.Called(ctx, archivePath, destDir)
	return args.Error(0)
}

// Assemble records the call and returns the configured error
func (m *MockCodec) Assemble(ctx context.Context, srcDir, archivePath string) error {
	args := m.Called(ctx, srcDir, archivePath)
	return args.Error(0)
}
