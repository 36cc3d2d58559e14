// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// MockSaveDialog is a mock implementation of dialog.SaveDialog for testing.
type MockSaveDialog struct {
	mock.Mock
}

// SaveFile mocks the SaveFile method.
func (m *MockSaveDialog) SaveFile(ctx context.Context, opts dialog.SaveOptions) (string, bool, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Bool(1), args.Error(2)
}

// NewSavingDialog returns a dialog that always chooses path.
func NewSavingDialog(t *testing.T, path string) *MockSaveDialog {
	t.Helper()
	m := new(MockSaveDialog)
	m.On("SaveFile", mock.Anything, mock.Anything).Return(path, true, nil)
	return m
}

// NewCancellingDialog returns a dialog the user always dismisses.
func NewCancellingDialog(t *testing.T) *MockSaveDialog {
	t.Helper()
	m := new(MockSaveDialog)
	m.On("SaveFile", mock.Anything, mock.Anything).Return("", false, nil)
	return m
}

// MockServiceProvider is a mock implementation of service.Provider for testing.
type MockServiceProvider struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockServiceProvider) Definition() types.Service {
	args := m.Called()
	return args.Get(0).(types.Service)
}

// Execute mocks the Execute method.
func (m *MockServiceProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := m.Called(ctx, toolID, params, appCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

// NewMockServiceProvider creates a mock provider exposing one tool per command.
func NewMockServiceProvider(t *testing.T, serviceID string, commands ...string) *MockServiceProvider {
	t.Helper()
	m := new(MockServiceProvider)

	tools := make([]types.Tool, 0, len(commands))
	for _, cmd := range commands {
		tools = append(tools, types.Tool{ID: serviceID + "." + cmd, Command: cmd, Name: cmd})
	}
	m.On("Definition").Return(types.Service{
		ID:          serviceID,
		Name:        "Mock Service",
		Description: "Mock service for testing",
		Category:    types.CategorySystem,
		Tools:       tools,
	}).Maybe()

	return m
}

// WriteFile creates dir/name with content, creating parents, and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// AssertSuccess is a helper to assert a successful result.
func AssertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if !result.Success {
		msg := "<nil>"
		if result.Error != nil {
			msg = *result.Error
		}
		t.Fatalf("Expected success, got error: %s (%s)", msg, result.ErrorKind)
	}
}

// AssertError is a helper to assert an error result.
func AssertError(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if result.Success {
		t.Fatal("Expected error, got success")
	}
	if result.Error == nil {
		t.Fatal("Expected error message, got nil")
	}
}

// AssertErrorKind asserts a failed result of the given kind.
func AssertErrorKind(t *testing.T, result *types.Result, kind apperr.Kind) {
	t.Helper()
	AssertError(t, result)
	if result.ErrorKind != kind {
		t.Fatalf("Expected error kind %s, got %s (%s)", kind, result.ErrorKind, *result.Error)
	}
}

// AssertDataField is a helper to assert a data field exists and matches expected value.
func AssertDataField(t *testing.T, result *types.Result, field string, expected interface{}) {
	t.Helper()
	AssertSuccess(t, result)

	if result.Data == nil {
		t.Fatal("Result data is nil")
	}

	actual, ok := result.Data[field]
	if !ok {
		t.Fatalf("Field %s not found in result data", field)
	}

	if actual != expected {
		t.Fatalf("Field %s: expected %v, got %v", field, expected, actual)
	}
}
