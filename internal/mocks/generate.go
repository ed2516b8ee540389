// Package mocks provides mock implementations for testing the campus identity subsystem.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository ports. Hand-written doubles for the directory ports live in the
// mocks/directory subpackage; they are lightweight and suitable for unit tests
// without codegen.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for PersonRepository interface from internal/ports.
// This creates MockPersonRepository with methods for all PersonRepository interface methods:
// GetByID, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=person_repository_mock.go github.com/uniport/campus-api/internal/ports PersonRepository
