package pos

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. All four reasons are recoverable: they land in
// the engine's single lastError slot, are surfaced to the operator, and
// clear on the next successful operation. Nothing is retried here; the
// operator retries by re-issuing the action.
var (
	// ErrProductNotFound: the pending entry's name has no case-insensitive
	// exact match in the catalog cache.
	ErrProductNotFound = errors.New("producto no encontrado")

	// ErrInsufficientStock: the requested (or merged) quantity exceeds the
	// cached stock figure.
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError rejects a malformed pending entry before any catalog
// lookup happens. Caller-correctable, never mutates the cart.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "entrada invalida: " + e.Reason
}

// FinalizeError wraps a synchronous failure from the ticket submitter.
// The cart is kept intact when this is raised.
type FinalizeError struct {
	Cause error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("error al generar ticket: %v", e.Cause)
}

func (e *FinalizeError) Unwrap() error { return e.Cause }
