package merkletree

import "sort"

// IndexedValue pairs an original input value with its position in the flat
// tree array. One IndexedValue exists per original input, in input order.
type IndexedValue[V any] struct {
	Value     V
	TreeIndex int
}

// core is the shared engine behind both tree variants: it owns the flat
// tree array, the original values in input order, and the hash adapters.
// StandardMerkleTree and SimpleMerkleTree are thin facades around a core
// parameterized on their respective leaf value types; they differ only in
// how LeafHash is computed and in their dump schema (see standard.go,
// simple.go). No runtime polymorphism is needed here.
type core[V any] struct {
	tree       []Node
	values     []IndexedValue[V]
	leafHash   LeafHash[V]
	nodeHash   NodeHashFn
	hashLookup map[Node]int // leaf digest -> position in values
}

// buildCore applies leafHash to every value, optionally sorts the hashed
// leaves by digest, builds the flat tree, and records each value's
// resulting tree index and a digest->value-position lookup table.
func buildCore[V any](values []V, opts Options, leafHash LeafHash[V], nodeHash NodeHashFn) (*core[V], error) {
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}

	type hashedValue struct {
		value         V
		hash          Node
		originalIndex int
	}

	hashed := make([]hashedValue, len(values))
	for i, v := range values {
		h, err := leafHash(v)
		if err != nil {
			return nil, invalidArgumentf("invalid leaf at index %d: %v", i, err)
		}
		hashed[i] = hashedValue{value: v, hash: h, originalIndex: i}
	}

	if opts.SortLeaves {
		sort.SliceStable(hashed, func(i, j int) bool {
			return hashed[i].hash.Less(hashed[j].hash)
		})
	}

	leaves := make([]Node, len(hashed))
	for k, hv := range hashed {
		leaves[k] = hv.hash
	}

	tree, err := MakeMerkleTree(leaves, nodeHash)
	if err != nil {
		return nil, err
	}

	values2 := make([]IndexedValue[V], len(values))
	hashLookup := make(map[Node]int, len(values))
	for k, hv := range hashed {
		treeIndex := len(tree) - 1 - k
		values2[hv.originalIndex] = IndexedValue[V]{Value: hv.value, TreeIndex: treeIndex}
		hashLookup[hv.hash] = hv.originalIndex
	}

	return &core[V]{
		tree:       tree,
		values:     values2,
		leafHash:   leafHash,
		nodeHash:   nodeHash,
		hashLookup: hashLookup,
	}, nil
}

// loadCore reconstructs a core from a raw tree and indexed values (as read
// from a dump), without re-deriving the tree. Callers must call Validate
// before trusting the result, per the load contract in spec §4.7.
func loadCore[V any](tree []Node, values []IndexedValue[V], leafHash LeafHash[V], nodeHash NodeHashFn) *core[V] {
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}
	hashLookup := make(map[Node]int, len(values))
	for i, v := range values {
		if v.TreeIndex >= 0 && v.TreeIndex < len(tree) {
			hashLookup[tree[v.TreeIndex]] = i
		}
	}
	return &core[V]{tree: tree, values: values, leafHash: leafHash, nodeHash: nodeHash, hashLookup: hashLookup}
}

// Root returns the digest at index 0.
func (c *core[V]) Root() Node {
	if len(c.tree) == 0 {
		return Node{}
	}
	return c.tree[0]
}

// Length returns the number of original values.
func (c *core[V]) Length() int {
	return len(c.values)
}

// At returns the value stored at position i in input order, or false if i
// is out of range.
func (c *core[V]) At(i int) (V, bool) {
	var zero V
	if i < 0 || i >= len(c.values) {
		return zero, false
	}
	return c.values[i].Value, true
}

// Entries returns (index, value) pairs in original input order.
func (c *core[V]) Entries() []IndexedValue[V] {
	out := make([]IndexedValue[V], len(c.values))
	copy(out, c.values)
	return out
}

// LeafLookup returns the position of value in the value sequence.
func (c *core[V]) LeafLookup(value V) (int, error) {
	h, err := c.leafHash(value)
	if err != nil {
		return -1, invalidArgumentf("invalid leaf value: %v", err)
	}
	idx, ok := c.hashLookup[h]
	if !ok {
		return -1, invalidArgument("Leaf is not in tree")
	}
	return idx, nil
}

func (c *core[V]) checkValueIndex(index int) error {
	if index < 0 || index >= len(c.values) {
		return invalidArgumentf("index %d out of bounds (have %d values)", index, len(c.values))
	}
	return nil
}

// validateValueAt checks tree[treeIndex] == leafHash(value) for the value
// stored at position index.
func (c *core[V]) validateValueAt(index int) error {
	if err := c.checkValueIndex(index); err != nil {
		return err
	}
	iv := c.values[index]
	expected, err := c.leafHash(iv.Value)
	if err != nil {
		return invalidArgumentf("invalid leaf value at index %d: %v", index, err)
	}
	if iv.TreeIndex < 0 || iv.TreeIndex >= len(c.tree) {
		return invariantf("value at index %d has out-of-range treeIndex %d", index, iv.TreeIndex)
	}
	if c.tree[iv.TreeIndex] != expected {
		return invariantf("value at index %d does not match its recorded tree position", index)
	}
	return nil
}

// GetProofByIndex returns the single-leaf proof for the value at the given
// position in the value sequence, re-verifying it against the stored root
// before returning (defense in depth against hash-adapter bugs).
func (c *core[V]) GetProofByIndex(index int) ([]Node, error) {
	if err := c.validateValueAt(index); err != nil {
		return nil, err
	}
	treeIndex := c.values[index].TreeIndex
	proof, err := GetProof(c.tree, treeIndex)
	if err != nil {
		return nil, err
	}
	if got := ProcessProof(c.tree[treeIndex], proof, c.nodeHash); got != c.Root() {
		return nil, invariant("generated proof does not verify against the tree root")
	}
	return proof, nil
}

// GetProofByValue resolves value to its position and delegates to
// GetProofByIndex.
func (c *core[V]) GetProofByValue(value V) ([]Node, error) {
	index, err := c.LeafLookup(value)
	if err != nil {
		return nil, err
	}
	return c.GetProofByIndex(index)
}

func (c *core[V]) treeIndicesFor(valueIndices []int) ([]int, error) {
	out := make([]int, len(valueIndices))
	for k, idx := range valueIndices {
		if err := c.checkValueIndex(idx); err != nil {
			return nil, err
		}
		out[k] = c.values[idx].TreeIndex
	}
	return out, nil
}

// GetMultiProofByIndices generates a multiproof for the values at the given
// positions in the value sequence, re-verifying it against the stored root
// before returning.
func (c *core[V]) GetMultiProofByIndices(valueIndices []int) (MultiProof, error) {
	treeIndices, err := c.treeIndicesFor(valueIndices)
	if err != nil {
		return MultiProof{}, err
	}
	mp, err := GetMultiProof(c.tree, treeIndices)
	if err != nil {
		return MultiProof{}, err
	}
	if got, err := ProcessMultiProof(mp, c.nodeHash); err != nil || got != c.Root() {
		return MultiProof{}, invariant("generated multiproof does not verify against the tree root")
	}
	return mp, nil
}

// GetMultiProofByValues resolves values to their positions and delegates to
// GetMultiProofByIndices.
func (c *core[V]) GetMultiProofByValues(values []V) (MultiProof, error) {
	indices := make([]int, len(values))
	for i, v := range values {
		idx, err := c.LeafLookup(v)
		if err != nil {
			return MultiProof{}, err
		}
		indices[i] = idx
	}
	return c.GetMultiProofByIndices(indices)
}

// VerifyIndex checks proof against the value at the given position.
func (c *core[V]) VerifyIndex(index int, proof []Node) (bool, error) {
	if err := c.checkValueIndex(index); err != nil {
		return false, err
	}
	h, err := c.leafHash(c.values[index].Value)
	if err != nil {
		return false, invalidArgumentf("invalid leaf value: %v", err)
	}
	return ProcessProof(h, proof, c.nodeHash) == c.Root(), nil
}

// VerifyValue checks proof against value directly.
func (c *core[V]) VerifyValue(value V, proof []Node) (bool, error) {
	h, err := c.leafHash(value)
	if err != nil {
		return false, invalidArgumentf("invalid leaf value: %v", err)
	}
	return ProcessProof(h, proof, c.nodeHash) == c.Root(), nil
}

// VerifyMultiProof checks mp against the stored root.
func (c *core[V]) VerifyMultiProof(mp MultiProof) (bool, error) {
	root, err := ProcessMultiProof(mp, c.nodeHash)
	if err != nil {
		return false, err
	}
	return root == c.Root(), nil
}

// Validate checks every stored value against its recorded tree position and
// asserts the tree's overall structural validity.
func (c *core[V]) Validate() error {
	for i := range c.values {
		if err := c.validateValueAt(i); err != nil {
			return err
		}
	}
	if !IsValidMerkleTree(c.tree, c.nodeHash) {
		return invariant("Merkle tree is invalid")
	}
	return nil
}

// Render returns the ASCII rendering of the tree.
func (c *core[V]) Render() string {
	return Render(c.tree)
}

// VerifyProof is the static single-leaf verifier: it never errors, and
// reports false for any ill-formed combination. nodeHash defaults to
// StandardNodeHash when nil.
func VerifyProof(root, leaf Node, proof []Node, nodeHash NodeHashFn) bool {
	return ProcessProof(leaf, proof, nodeHash) == root
}

// VerifyMultiProof is the static multiproof verifier. It reports
// InvalidArgument for a malformed multiproof shape and Invariant for an
// internally inconsistent one; otherwise it compares the implied root
// against root.
func VerifyMultiProof(root Node, mp MultiProof, nodeHash NodeHashFn) (bool, error) {
	implied, err := ProcessMultiProof(mp, nodeHash)
	if err != nil {
		return false, err
	}
	return implied == root, nil
}
