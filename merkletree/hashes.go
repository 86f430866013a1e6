package merkletree

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// LeafHash computes a leaf's digest from its raw value. Implementations must
// be pure: no interior mutation, no I/O.
type LeafHash[V any] func(value V) (Node, error)

// NodeHashFn computes an internal node's digest from its two children. The
// default, StandardNodeHash, sorts its pair before hashing so that the order
// in which a verifier supplies two siblings never changes the result.
type NodeHashFn func(left, right Node) Node

// StandardNodeHash is keccak256(sorted(a, b) concatenated): the default pair
// hash used by both tree variants unless a custom one is supplied. Sorting
// at the node level is what lets processProof/processMultiProof fold a proof
// without tracking left/right order.
func StandardNodeHash(a, b Node) Node {
	lo, hi := sortPair(a, b)
	buf := make([]byte, 64)
	copy(buf[:32], lo[:])
	copy(buf[32:], hi[:])
	n, _ := NodeFromBytes(crypto.Keccak256(buf))
	return n
}

// abiArguments builds an abi.Arguments descriptor for the given Solidity
// type strings, e.g. ["address", "uint256"].
func abiArguments(types []string) (abi.Arguments, error) {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, invalidArgumentf("leafEncoding[%d] = %q is not a valid ABI type: %v", i, t, err)
		}
		args[i] = abi.Argument{Type: typ}
	}
	return args, nil
}

// encodeABI ABI-encodes values against the given Solidity type strings,
// the same encoding `abi.encode` would produce for the equivalent tuple.
// Each value is first normalized to the exact Go representation the ABI
// packer expects for its declared type (toABIGoValue), so callers may pass
// convenient forms (hex strings for addresses/bytes, decimal strings or
// native ints for integers) as well as already-typed go-ethereum values.
func encodeABI(types []string, values []interface{}) ([]byte, error) {
	if len(types) != len(values) {
		return nil, invalidArgumentf("leafEncoding has %d types but value has %d fields", len(types), len(values))
	}
	args, err := abiArguments(types)
	if err != nil {
		return nil, err
	}
	normalized := make([]interface{}, len(values))
	for i, v := range values {
		nv, err := toABIGoValue(args[i].Type, v)
		if err != nil {
			return nil, invalidArgumentf("leaf field %d: %v", i, err)
		}
		normalized[i] = nv
	}
	packed, err := args.Pack(normalized...)
	if err != nil {
		return nil, invalidArgumentf("failed to ABI-encode leaf value: %v", err)
	}
	return packed, nil
}

// StandardLeafHash computes keccak256(keccak256(abi.encode(types, value))).
// The inner-outer double hash is the second-preimage defense: it keeps a
// 64-byte leaf from being mistaken for the concatenation of two internal
// children, since every leaf the tree builder produces is itself the output
// of a hash function rather than raw 64-byte data.
func StandardLeafHash(types []string, value []interface{}) (Node, error) {
	encoded, err := encodeABI(types, value)
	if err != nil {
		return Node{}, err
	}
	inner := crypto.Keccak256(encoded)
	outer := crypto.Keccak256(inner)
	return NodeFromBytes(outer)
}

// SimpleLeafHash validates that value is already a 32-byte digest and
// returns it unchanged. The simple variant's leaves are caller-supplied
// digests, not ABI-encoded tuples, so there is nothing to hash here beyond
// width validation.
func SimpleLeafHash(value Node) (Node, error) {
	return value, nil
}
