// Package ai provides the step-suggestion capability the enhancement
// pipeline uses for its GENERAL focus. The deterministic Static
// implementation is the default; network-backed implementations can be
// swapped in without the pipeline changing.
package ai

import (
	"context"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Provider identifies a suggestion backend.
type Provider string

const (
	ProviderStatic Provider = "static"
	ProviderRemote Provider = "remote"
)

// Suggester proposes additional steps for a test case.
type Suggester interface {
	SuggestSteps(ctx context.Context, tc model.TestCase, focus string) ([]model.TestStep, error)
	Name() Provider
	Available() bool
}

// FromConfig selects the suggester for the configured provider.
// Anything unrecognized falls back to Static so enhancement always
// has a working capability.
func FromConfig(provider, baseURL, modelName string) Suggester {
	if Provider(provider) == ProviderRemote && baseURL != "" {
		return NewRemote(baseURL, modelName)
	}
	return NewStatic()
}
