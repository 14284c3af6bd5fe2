package catalog

import "errors"

var (
	// ErrEmptyCatalog is returned when an operation needs at least one bias.
	ErrEmptyCatalog = errors.New("catalog: no biases available")

	// ErrUnknownItem is returned when a bias id is not in the catalog.
	ErrUnknownItem = errors.New("catalog: unknown bias")

	// ErrCatalogTooSmall is returned when the catalog cannot supply enough
	// distinct biases (for example, four quiz options).
	ErrCatalogTooSmall = errors.New("catalog: not enough biases")

	// ErrInvalidBias is returned when a bias fails validation.
	ErrInvalidBias = errors.New("catalog: invalid bias")
)
