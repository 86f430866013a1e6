package merkletree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimpleMerkleTreeSingleLeaf covers the one-leaf boundary: the root
// equals the leaf itself and the only proof is empty.
func TestSimpleMerkleTreeSingleLeaf(t *testing.T) {
	leaf := leafNode(9)
	tree, err := NewSimpleMerkleTree([]Node{leaf}, nil)
	require.NoError(t, err)
	assert.Equal(t, leaf, tree.Root())

	proof, err := tree.GetProofByIndex(0)
	require.NoError(t, err)
	assert.Empty(t, proof)

	ok, err := tree.VerifyIndex(0, proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSimpleMerkleTreeTwoLeaves(t *testing.T) {
	leaves := []Node{leafNode(1), leafNode(2)}
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)
	for i := range leaves {
		proof, err := tree.GetProofByIndex(i)
		require.NoError(t, err)
		require.Len(t, proof, 1)
		ok, err := tree.VerifyIndex(i, proof)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

// TestSimpleMerkleTreeDuplicateLeaves checks that repeated leaf values are
// preserved positionally: every original index still produces a valid proof,
// even though LeafLookup can only resolve one of the duplicates by value.
func TestSimpleMerkleTreeDuplicateLeaves(t *testing.T) {
	dup := leafNode(5)
	leaves := []Node{leafNode(1), dup, leafNode(3), dup}
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Length())

	for i := range leaves {
		proof, err := tree.GetProofByIndex(i)
		require.NoError(t, err)
		ok, err := tree.VerifyIndex(i, proof)
		require.NoError(t, err)
		assert.True(t, ok, "duplicate leaf at index %d should still verify", i)
	}
}

func TestSimpleMerkleTreeOrderInvariantVerification(t *testing.T) {
	// Input order 1,4,7,2,5,8,3,6: not already sorted, so sorting regroups
	// the leaf pairs.
	leaves := make([]Node, 8)
	for i := range leaves {
		leaves[i] = leafNode(byte((i*3)%8 + 1))
	}
	sortedTree, err := NewSimpleMerkleTree(leaves, &Options{SortLeaves: true})
	require.NoError(t, err)
	unsortedTree, err := NewSimpleMerkleTree(leaves, &Options{SortLeaves: false})
	require.NoError(t, err)

	// Both construction orders must still produce internally consistent,
	// independently verifiable trees, even though their roots differ.
	assert.NotEqual(t, sortedTree.Root(), unsortedTree.Root())
	for i := range leaves {
		p1, err := sortedTree.GetProofByIndex(i)
		require.NoError(t, err)
		ok, err := sortedTree.VerifyIndex(i, p1)
		require.NoError(t, err)
		assert.True(t, ok)

		p2, err := unsortedTree.GetProofByIndex(i)
		require.NoError(t, err)
		ok, err = unsortedTree.VerifyIndex(i, p2)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSimpleMerkleTreeValidateCatchesCorruption(t *testing.T) {
	leaves := []Node{leafNode(1), leafNode(2), leafNode(3), leafNode(4)}
	tree, err := NewSimpleMerkleTree(leaves, nil)
	require.NoError(t, err)
	require.NoError(t, tree.Validate())

	tree.core.tree[1] = leafNode(99)
	err = tree.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestPackageLevelVerifyProofNeverErrors(t *testing.T) {
	// A malformed proof simply fails to verify; VerifyProof has no error
	// return to misuse.
	ok := VerifyProof(ZeroNode, leafNode(1), []Node{leafNode(2), leafNode(3)}, nil)
	assert.False(t, ok)
}

func TestMultiProofStructuralMismatchIsInvalidArgument(t *testing.T) {
	_, err := VerifyMultiProof(ZeroNode, MultiProof{
		Leaves:     []Node{leafNode(1)},
		Proof:      []Node{leafNode(2)},
		ProofFlags: []bool{true, true, true},
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
