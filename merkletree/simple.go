package merkletree

// SimpleMerkleTree is the caller-supplied-digest variant: each leaf is a
// 32-byte value the caller already hashed, optionally paired with a custom
// node hash (spec §4.1, §4.7).
type SimpleMerkleTree struct {
	core       core[Node]
	customHash bool
}

// NewSimpleMerkleTree builds a SimpleMerkleTree from raw 32-byte leaves.
// opts may be nil for DefaultOptions; opts.NodeHash, if set, overrides the
// pair hash used for every internal node.
func NewSimpleMerkleTree(values []Node, opts *Options) (*SimpleMerkleTree, error) {
	resolved := resolveOptions(opts)
	custom := resolved.NodeHash != nil
	nodeHash := resolved.NodeHash
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}

	c, err := buildCore(values, resolved, SimpleLeafHash, nodeHash)
	if err != nil {
		return nil, err
	}
	return &SimpleMerkleTree{core: *c, customHash: custom}, nil
}

func (t *SimpleMerkleTree) Root() Node                   { return t.core.Root() }
func (t *SimpleMerkleTree) Length() int                  { return t.core.Length() }
func (t *SimpleMerkleTree) At(i int) (Node, bool)        { return t.core.At(i) }
func (t *SimpleMerkleTree) Entries() []IndexedValue[Node] { return t.core.Entries() }
func (t *SimpleMerkleTree) LeafLookup(value Node) (int, error) {
	return t.core.LeafLookup(value)
}
func (t *SimpleMerkleTree) GetProofByIndex(index int) ([]Node, error) {
	return t.core.GetProofByIndex(index)
}
func (t *SimpleMerkleTree) GetProofByValue(value Node) ([]Node, error) {
	return t.core.GetProofByValue(value)
}
func (t *SimpleMerkleTree) GetMultiProofByIndices(indices []int) (MultiProof, error) {
	return t.core.GetMultiProofByIndices(indices)
}
func (t *SimpleMerkleTree) GetMultiProofByValues(values []Node) (MultiProof, error) {
	return t.core.GetMultiProofByValues(values)
}
func (t *SimpleMerkleTree) VerifyIndex(index int, proof []Node) (bool, error) {
	return t.core.VerifyIndex(index, proof)
}
func (t *SimpleMerkleTree) VerifyValue(value Node, proof []Node) (bool, error) {
	return t.core.VerifyValue(value, proof)
}
func (t *SimpleMerkleTree) VerifyMultiProof(mp MultiProof) (bool, error) {
	return t.core.VerifyMultiProof(mp)
}
func (t *SimpleMerkleTree) Validate() error { return t.core.Validate() }
func (t *SimpleMerkleTree) Render() string  { return t.core.Render() }

// VerifySimpleMerkleTree is the static single-leaf verifier for the simple
// variant. nodeHash may be nil for StandardNodeHash. Never errors; a
// malformed proof simply fails to verify.
func VerifySimpleMerkleTree(root, leaf Node, proof []Node, nodeHash NodeHashFn) bool {
	return VerifyProof(root, leaf, proof, nodeHash)
}

// SimpleDumpValue is one entry of a SimpleDump's values array.
type SimpleDumpValue struct {
	Value     Node `json:"value"`
	TreeIndex int  `json:"treeIndex"`
}

// SimpleDump is the JSON-serializable form of a SimpleMerkleTree. Hash is
// "custom" iff the tree was built with a non-default node hash; load must
// then receive a matching NodeHashFn (both present or both absent).
type SimpleDump struct {
	Format string            `json:"format"`
	Tree   []Node            `json:"tree"`
	Values []SimpleDumpValue `json:"values"`
	Hash   string            `json:"hash,omitempty"`
}

// Dump exports the tree for storage or transmission.
func (t *SimpleMerkleTree) Dump() SimpleDump {
	entries := t.core.Entries()
	values := make([]SimpleDumpValue, len(entries))
	for i, e := range entries {
		values[i] = SimpleDumpValue{Value: e.Value, TreeIndex: e.TreeIndex}
	}
	hash := ""
	if t.customHash {
		hash = "custom"
	}
	return SimpleDump{
		Format: "simple-v1",
		Tree:   append([]Node(nil), t.core.tree...),
		Values: values,
		Hash:   hash,
	}
}

// LoadSimpleMerkleTree reconstructs a SimpleMerkleTree from a dump,
// re-validating it before returning. nodeHash must be supplied iff
// dump.Hash == "custom"; a mismatch in either direction is InvalidArgument.
func LoadSimpleMerkleTree(dump SimpleDump, nodeHash NodeHashFn) (*SimpleMerkleTree, error) {
	if dump.Format != "simple-v1" {
		return nil, invalidArgumentf("Unknown format %q, expected 'simple-v1'", dump.Format)
	}
	declaresCustom := dump.Hash == "custom"
	suppliesCustom := nodeHash != nil
	if declaresCustom != suppliesCustom {
		return nil, invalidArgument("dump's custom-hash declaration does not match the supplied node hash")
	}

	resolvedHash := nodeHash
	if resolvedHash == nil {
		resolvedHash = StandardNodeHash
	}

	values := make([]IndexedValue[Node], len(dump.Values))
	for i, dv := range dump.Values {
		values[i] = IndexedValue[Node]{Value: dv.Value, TreeIndex: dv.TreeIndex}
	}

	c := loadCore(append([]Node(nil), dump.Tree...), values, SimpleLeafHash, resolvedHash)
	t := &SimpleMerkleTree{core: *c, customHash: declaresCustom}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
