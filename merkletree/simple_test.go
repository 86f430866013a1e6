package merkletree

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedNodeHash is a custom node hash that, unlike StandardNodeHash, does
// not sort its operands: it hashes a directly followed by b.
func orderedNodeHash(a, b Node) Node {
	buf := make([]byte, 64)
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	n, _ := NodeFromBytes(crypto.Keccak256(buf))
	return n
}

// letterDigests are keccak256("a") .. keccak256("f"), used by the S2-S4
// golden-vector scenarios below.
var letterDigests = []string{
	"0x3ac225168df54212a25c1c01fd35bebfea408fdac2e31ddd6f80a4bbf9a5f1cb",
	"0xb5553de315e0edf504d9150af82dafa5c4667fa618ed0a6f19c69b41166c5510",
	"0x0b42b6393c1f53060fe3ddbfcd7aadcca894465a5a438f69c87d790b2299b9b2",
	"0xf1918e8562236eb17adc8502332f4c9c82bc14e19bfc0aa10ab674ff75b3d2f3",
	"0xa8982c89d80987fb9a510e25981ee9170206be21af3c8e0eb312ef1d3382e761",
	"0xd1e8aeb79500496ef3dc2e57ba746a8315d048b7a664a2bf948db4fa91960483",
}

func letterLeaves(t *testing.T) []Node {
	t.Helper()
	leaves := make([]Node, len(letterDigests))
	for i, h := range letterDigests {
		n, err := NodeFromHex(h)
		require.NoError(t, err)
		leaves[i] = n
	}
	return leaves
}

// TestSimpleMerkleTreeGoldenVectorUnsorted is scenario S2: six pre-hashed
// leaves, built with SortLeaves disabled so construction order is preserved.
func TestSimpleMerkleTreeGoldenVectorUnsorted(t *testing.T) {
	tree, err := NewSimpleMerkleTree(letterLeaves(t), &Options{SortLeaves: false})
	require.NoError(t, err)
	assert.Equal(t, "0x9012f1e18a87790d2e01faace75aaaca38e53df437cdce2c0552464dda4af49c", tree.Root().Hex())
}

// TestSimpleMerkleTreeGoldenVectorSorted is scenario S3: the same leaves,
// built with the default (sorted) options.
func TestSimpleMerkleTreeGoldenVectorSorted(t *testing.T) {
	tree, err := NewSimpleMerkleTree(letterLeaves(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "0x1b404f199ea828ec5771fb30139c222d8417a82175fefad5cd42bc3a189bd8d5", tree.Root().Hex())
}

func TestSimpleMerkleTreeProofRoundTrip(t *testing.T) {
	leaves := letterLeaves(t)
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)

	for i, leaf := range leaves {
		proof, err := tree.GetProofByValue(leaf)
		require.NoError(t, err, "leaf %d", i)
		ok, err := tree.VerifyValue(leaf, proof)
		require.NoError(t, err)
		assert.True(t, ok, "leaf %d should verify", i)
		assert.True(t, VerifySimpleMerkleTree(tree.Root(), leaf, proof, nil))
	}
}

// TestSimpleMerkleTreeMultiProofEmptyIndices is scenario S4: getMultiProof
// called with no indices on the sorted S3 tree returns the degenerate
// {leaves: [], proof: [root], proofFlags: []} witness, and it verifies.
func TestSimpleMerkleTreeMultiProofEmptyIndices(t *testing.T) {
	tree, err := NewSimpleMerkleTree(letterLeaves(t), nil)
	require.NoError(t, err)

	mp, err := tree.GetMultiProofByValues(nil)
	require.NoError(t, err)
	assert.Empty(t, mp.Leaves)
	assert.Empty(t, mp.ProofFlags)
	require.Len(t, mp.Proof, 1)
	assert.Equal(t, tree.Root(), mp.Proof[0])

	ok, err := tree.VerifyMultiProof(mp)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestLoadSimpleMerkleTreeRejectsTamperedTree is scenario S5: a dump whose
// tree array does not match nodeHash(children) must fail Validate with an
// Invariant error, not silently load.
func TestLoadSimpleMerkleTreeRejectsTamperedTree(t *testing.T) {
	dump := SimpleDump{
		Format: "simple-v1",
		Tree:   []Node{ZeroNode, ZeroNode, ZeroNode},
		Values: []SimpleDumpValue{{Value: ZeroNode, TreeIndex: 2}},
	}
	_, err := LoadSimpleMerkleTree(dump, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestLoadSimpleMerkleTreeRejectsWrongFormat(t *testing.T) {
	dump := SimpleDump{Format: "standard-v1"}
	_, err := LoadSimpleMerkleTree(dump, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSimpleMerkleTreeDumpLoadRoundTrip(t *testing.T) {
	leaves := letterLeaves(t)
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)

	dump := tree.Dump()
	assert.Empty(t, dump.Hash)

	loaded, err := LoadSimpleMerkleTree(dump, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), loaded.Root())
	assert.Equal(t, dump, loaded.Dump())
}

func TestSimpleMerkleTreeCustomNodeHash(t *testing.T) {
	leaves := letterLeaves(t)[:3]
	tree, err := NewSimpleMerkleTree(leaves, &Options{SortLeaves: true, NodeHash: orderedNodeHash})
	require.NoError(t, err)

	dump := tree.Dump()
	assert.Equal(t, "custom", dump.Hash)

	_, err = LoadSimpleMerkleTree(dump, nil)
	assert.Error(t, err, "loading a custom-hash dump without supplying the hash should fail")

	loaded, err := LoadSimpleMerkleTree(dump, orderedNodeHash)
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), loaded.Root())
}

func TestSimpleMerkleTreeRejectsNonTreeLeafValue(t *testing.T) {
	leaves := letterLeaves(t)
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)

	_, err = tree.GetProofByValue(ZeroNode)
	assert.Error(t, err)
}
