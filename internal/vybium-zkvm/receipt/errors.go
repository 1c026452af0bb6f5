package receipt

import "errors"

// Verification and codec errors.
var (
	// ErrImageIDMismatch means the receipt's pre-state digest does not match
	// the image ID the caller expected.
	ErrImageIDMismatch = errors.New("receipt: image ID does not match pre-state digest")

	// ErrIntegrity means a seal failed its cryptographic/structural check.
	ErrIntegrity = errors.New("receipt: proof integrity check failed")

	// ErrConditionalReceipt means the receipt's claim still carries
	// unresolved assumptions. Conditional receipts never verify.
	ErrConditionalReceipt = errors.New("receipt: claim has unresolved assumptions")

	// ErrJournalMismatch means the journal bytes do not hash to the claim's
	// journal digest.
	ErrJournalMismatch = errors.New("receipt: journal does not match claim digest")

	// ErrFakeReceipt means a fake (dev-mode) receipt was verified outside a
	// context that permits dev-mode verification.
	ErrFakeReceipt = errors.New("receipt: fake receipt is only valid in dev mode")

	// ErrDevModeDisabled means dev mode was disabled at build time.
	ErrDevModeDisabled = errors.New("receipt: dev mode is disabled in this build")

	// ErrAssumptionMismatch means a resolve was attempted with a
	// corroborating claim that matches no pending assumption.
	ErrAssumptionMismatch = errors.New("receipt: corroborating claim matches no pending assumption")

	// ErrClaimsNotAdjacent means two claims cannot be joined because the
	// first's post-state digest differs from the second's pre-state digest.
	ErrClaimsNotAdjacent = errors.New("receipt: claims are not sequentially adjacent")

	// ErrHashSuite means an unknown or disallowed seal hash suite.
	ErrHashSuite = errors.New("receipt: unsupported seal hash suite")

	// ErrMalformedReceipt means the receipt structure itself is invalid
	// (empty composite, non-contiguous segment indices, bad seal length).
	ErrMalformedReceipt = errors.New("receipt: malformed receipt structure")

	// ErrCodec means the word encoding could not be decoded.
	ErrCodec = errors.New("receipt: malformed word encoding")
)
