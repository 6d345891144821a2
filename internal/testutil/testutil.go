// Package testutil provides mocks and fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
)

// MockService is a mock implementation of the evaluation service.
type MockService struct {
	mock.Mock
}

// Evaluate mocks the Evaluate method.
func (m *MockService) Evaluate(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) (*editorconfig.EvaluationResult, error) {
	args := m.Called(ctx, content, values, def)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*editorconfig.EvaluationResult), args.Error(1)
}

// VisiblePropertyKeys mocks the VisiblePropertyKeys method.
func (m *MockService) VisiblePropertyKeys(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) ([]string, bool, error) {
	args := m.Called(ctx, content, values, def)
	var keys []string
	if args.Get(0) != nil {
		keys = args.Get(0).([]string)
	}
	return keys, args.Bool(1), args.Error(2)
}

// Validate mocks the Validate method.
func (m *MockService) Validate(ctx context.Context, content string, values editorconfig.Values) ([]editorconfig.ValidationError, error) {
	args := m.Called(ctx, content, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]editorconfig.ValidationError), args.Error(1)
}

// NewMockService creates a mock service with no default behaviors.
func NewMockService(t *testing.T) *MockService {
	t.Helper()
	m := new(MockService)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Str returns a pointer to s
func Str(s string) *string {
	return &s
}

// Group builds a property group holding one property per key
func Group(caption string, keys ...string) editorconfig.PropertyGroup {
	props := make([]editorconfig.PropertyDescriptor, 0, len(keys))
	for _, key := range keys {
		props = append(props, editorconfig.PropertyDescriptor{"key": key})
	}
	return editorconfig.PropertyGroup{Caption: Str(caption), Properties: props}
}

// SampleWidget is a definition with a top-level group and one nested group
func SampleWidget() editorconfig.WidgetDefinition {
	general := Group("General", "name", "advancedOption")
	general.PropertyGroups = []editorconfig.PropertyGroup{Group("Inner", "inner")}
	return editorconfig.WidgetDefinition{
		PropertyGroups: []editorconfig.PropertyGroup{general},
	}
}
