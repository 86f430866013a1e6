package merkletree

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

// Node is a 32-byte digest: the fixed-width domain every leaf and internal
// node of the tree lives in. Equality is bytewise; ordering is lexicographic
// on the raw bytes, unsigned.
type Node [32]byte

// ZeroNode is the all-zero digest, useful in tests and as an explicit
// "no value" sentinel; it is not treated specially by the engine.
var ZeroNode Node

// NodeFromBytes copies b into a Node, failing if b is not exactly 32 bytes.
func NodeFromBytes(b []byte) (Node, error) {
	var n Node
	if len(b) != 32 {
		return n, invalidArgumentf("merkle tree nodes must be 32 bytes, got %d", len(b))
	}
	copy(n[:], b)
	return n, nil
}

// NodeFromHex parses a "0x"-prefixed 64-hex-digit string into a Node.
func NodeFromHex(s string) (Node, error) {
	var n Node
	if len(s) != 2+64 || s[0] != '0' || s[1] != 'x' {
		return n, invalidArgumentf("invalid node hex %q: expected 0x-prefixed 64 hex digits", s)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return n, invalidArgumentf("invalid node hex %q: %v", s, err)
	}
	copy(n[:], b)
	return n, nil
}

// Bytes returns the node's raw 32 bytes.
func (n Node) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, n[:])
	return out
}

// Hex renders the node as a "0x"-prefixed lowercase hex string.
func (n Node) Hex() string {
	return "0x" + hex.EncodeToString(n[:])
}

// String implements fmt.Stringer as the node's hex form.
func (n Node) String() string {
	return n.Hex()
}

// Compare returns -1, 0, or 1 as n is less than, equal to, or greater than
// other, comparing the raw bytes lexicographically (unsigned).
func (n Node) Compare(other Node) int {
	return bytes.Compare(n[:], other[:])
}

// Less reports whether n sorts strictly before other.
func (n Node) Less(other Node) bool {
	return n.Compare(other) < 0
}

// sortPair returns (a, b) reordered so the first return value is the
// lexicographically smaller of the two. This is the core of the sorted-pair
// hash: it makes the order in which a verifier supplies two siblings
// irrelevant to the resulting parent hash.
func sortPair(a, b Node) (Node, Node) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// MarshalJSON renders the node as a quoted "0x..." string, matching the
// dump format in spec §6.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Hex())
}

// UnmarshalJSON parses a quoted "0x..." string into the node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return invalidArgumentf("node must be a hex string: %v", err)
	}
	parsed, err := NodeFromHex(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
