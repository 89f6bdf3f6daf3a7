// Package mocks provides mock implementations for testing the portal BFF.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// port interfaces. The mocks are generated using go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockUsers := mocks.NewMockUserDirectory(ctrl)
//	mockUsers.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserDirectory interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_directory_mock.go github.com/smartsec/portal-bff/internal/ports UserDirectory
