// Package mocks provides testify mocks of the service ports for handler
// tests.
package mocks
