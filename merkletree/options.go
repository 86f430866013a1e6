package merkletree

// Options configures tree construction.
type Options struct {
	// SortLeaves sorts leaves by digest before placement (default true).
	// This keeps the tree shape independent of input order, so any verifier
	// rebuilding a multiproof matches the order this package produces.
	// Set false only when mirroring a tree built by iterative on-chain
	// construction that preserves input order.
	SortLeaves bool

	// NodeHash overrides the pair hash used for every internal node. Nil
	// means StandardNodeHash. Only meaningful for the simple variant; the
	// standard variant always uses StandardNodeHash.
	NodeHash NodeHashFn
}

// DefaultOptions is SortLeaves: true, NodeHash: nil (StandardNodeHash).
var DefaultOptions = Options{SortLeaves: true}

// resolveOptions returns DefaultOptions when opts is nil and *opts
// unchanged otherwise; no individual field is defaulted. A caller passing
// the zero Options{} gets SortLeaves: false, which is a legitimate explicit
// choice, not "unset".
func resolveOptions(opts *Options) Options {
	if opts == nil {
		return DefaultOptions
	}
	return *opts
}
