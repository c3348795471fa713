package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockImageService is a mock implementation of the image upload service
type MockImageService struct {
	mock.Mock
}

// UploadImage mocks the UploadImage method; the reader is drained so callers see a completed read
func (m *MockImageService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}
