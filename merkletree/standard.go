package merkletree

import "encoding/json"

// StandardMerkleTree is the ABI-encoding-aware variant: each leaf is the
// double-Keccak of an ABI-encoded tuple (spec §4.1). It is compatible with
// OpenZeppelin's Solidity MerkleProof verifier: the sorted-pair node hash
// and the double-hashed leaves are exactly what that verifier expects.
type StandardMerkleTree struct {
	core         core[Leaf]
	leafEncoding []string
}

// NewStandardMerkleTree builds a StandardMerkleTree. leafEncoding names the
// ABI type of each field in every value; every value must have exactly
// len(leafEncoding) fields. opts may be nil for DefaultOptions. The
// standard variant always uses StandardNodeHash; opts.NodeHash is ignored.
func NewStandardMerkleTree(values []Leaf, leafEncoding []string, opts *Options) (*StandardMerkleTree, error) {
	if len(leafEncoding) == 0 {
		return nil, invalidArgument("leafEncoding is required for the standard variant")
	}
	resolved := resolveOptions(opts)

	leafHash := func(v Leaf) (Node, error) {
		return StandardLeafHash(leafEncoding, v)
	}

	c, err := buildCore(values, resolved, leafHash, StandardNodeHash)
	if err != nil {
		return nil, err
	}
	return &StandardMerkleTree{core: *c, leafEncoding: leafEncoding}, nil
}

func (t *StandardMerkleTree) Root() Node                    { return t.core.Root() }
func (t *StandardMerkleTree) Length() int                   { return t.core.Length() }
func (t *StandardMerkleTree) At(i int) (Leaf, bool)          { return t.core.At(i) }
func (t *StandardMerkleTree) Entries() []IndexedValue[Leaf]  { return t.core.Entries() }
func (t *StandardMerkleTree) LeafEncoding() []string         { return append([]string(nil), t.leafEncoding...) }
func (t *StandardMerkleTree) LeafLookup(value Leaf) (int, error) {
	return t.core.LeafLookup(value)
}
func (t *StandardMerkleTree) GetProofByIndex(index int) ([]Node, error) {
	return t.core.GetProofByIndex(index)
}
func (t *StandardMerkleTree) GetProofByValue(value Leaf) ([]Node, error) {
	return t.core.GetProofByValue(value)
}
func (t *StandardMerkleTree) GetMultiProofByIndices(indices []int) (MultiProof, error) {
	return t.core.GetMultiProofByIndices(indices)
}
func (t *StandardMerkleTree) GetMultiProofByValues(values []Leaf) (MultiProof, error) {
	return t.core.GetMultiProofByValues(values)
}
func (t *StandardMerkleTree) VerifyIndex(index int, proof []Node) (bool, error) {
	return t.core.VerifyIndex(index, proof)
}
func (t *StandardMerkleTree) VerifyValue(value Leaf, proof []Node) (bool, error) {
	return t.core.VerifyValue(value, proof)
}
func (t *StandardMerkleTree) VerifyMultiProof(mp MultiProof) (bool, error) {
	return t.core.VerifyMultiProof(mp)
}
func (t *StandardMerkleTree) Validate() error { return t.core.Validate() }
func (t *StandardMerkleTree) Render() string  { return t.core.Render() }

// VerifyStandardMerkleTree is the static single-leaf verifier for the
// standard variant: it ABI-encodes and double-hashes value per leafEncoding,
// then checks proof against root. It never errors on a malformed proof;
// instead it reports false (per spec §7), but does surface errors from an
// invalid leafEncoding/value combination since those are caller mistakes at
// the encoding boundary, not proof-shape issues.
func VerifyStandardMerkleTree(root Node, leafEncoding []string, value Leaf, proof []Node) (bool, error) {
	leaf, err := StandardLeafHash(leafEncoding, value)
	if err != nil {
		return false, err
	}
	return VerifyProof(root, leaf, proof, StandardNodeHash), nil
}

// StandardDumpValue is one entry of a StandardDump's values array.
type StandardDumpValue struct {
	Value     []json.RawMessage `json:"value"`
	TreeIndex int               `json:"treeIndex"`
}

// StandardDump is the JSON-serializable form of a StandardMerkleTree.
type StandardDump struct {
	Format       string               `json:"format"`
	Tree         []Node               `json:"tree"`
	Values       []StandardDumpValue  `json:"values"`
	LeafEncoding []string             `json:"leafEncoding"`
}

// Dump exports the tree for storage or transmission.
func (t *StandardMerkleTree) Dump() (StandardDump, error) {
	entries := t.core.Entries()
	values := make([]StandardDumpValue, len(entries))
	for i, e := range entries {
		fields := make([]json.RawMessage, len(t.leafEncoding))
		for k, typ := range t.leafEncoding {
			raw, err := encodeLeafValueJSON(typ, e.Value[k])
			if err != nil {
				return StandardDump{}, err
			}
			fields[k] = raw
		}
		values[i] = StandardDumpValue{Value: fields, TreeIndex: e.TreeIndex}
	}
	return StandardDump{
		Format:       "standard-v1",
		Tree:         append([]Node(nil), t.core.tree...),
		Values:       values,
		LeafEncoding: t.leafEncoding,
	}, nil
}

// LoadStandardMerkleTree reconstructs a StandardMerkleTree from a dump,
// re-validating it before returning (spec §4.7's load contract).
func LoadStandardMerkleTree(dump StandardDump) (*StandardMerkleTree, error) {
	if dump.Format != "standard-v1" {
		return nil, invalidArgumentf("Unknown format %q, expected 'standard-v1'", dump.Format)
	}
	if len(dump.LeafEncoding) == 0 {
		return nil, invalidArgument("dump is missing leafEncoding")
	}

	values := make([]IndexedValue[Leaf], len(dump.Values))
	for i, dv := range dump.Values {
		if len(dv.Value) != len(dump.LeafEncoding) {
			return nil, invalidArgumentf("value %d has %d fields, expected %d", i, len(dv.Value), len(dump.LeafEncoding))
		}
		leaf := make(Leaf, len(dump.LeafEncoding))
		for k, typ := range dump.LeafEncoding {
			decoded, err := decodeLeafValueJSON(typ, dv.Value[k])
			if err != nil {
				return nil, err
			}
			leaf[k] = decoded
		}
		values[i] = IndexedValue[Leaf]{Value: leaf, TreeIndex: dv.TreeIndex}
	}

	leafEncoding := dump.LeafEncoding
	leafHash := func(v Leaf) (Node, error) {
		return StandardLeafHash(leafEncoding, v)
	}

	c := loadCore(append([]Node(nil), dump.Tree...), values, leafHash, StandardNodeHash)
	t := &StandardMerkleTree{core: *c, leafEncoding: leafEncoding}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
