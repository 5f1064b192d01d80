// Package mocks provides mock implementations for testing the herederos system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the gateway port. Hand-written doubles for the credential provider and
// session store live in internal/mocks/auth.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	gateway := mocks.NewMockProfileGateway(ctrl)
//	gateway.EXPECT().GetRoles(gomock.Any(), "alice@example.com", "CONSALUD").Return(roles, nil)
package mocks

// Generate mock for ProfileGateway interface from internal/ports.
// This creates MockProfileGateway with methods for all ProfileGateway interface methods:
// GetProfile, GetDirectoryProfile, GetRoles, GetMenu
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_gateway_mock.go github.com/consalud/herederos-bff/internal/ports ProfileGateway
