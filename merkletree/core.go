package merkletree

// MultiProof witnesses a set of leaves with a single compact structure.
// Leaves is the digests being proven, in the order processMultiProof will
// consume them; Proof holds the sibling digests not derivable from Leaves;
// ProofFlags has length len(Leaves)+len(Proof)-1 and records, for each merge
// step, whether the next operand comes from the leaves queue (true) or the
// proof queue (false).
type MultiProof struct {
	Leaves     []Node `json:"leaves"`
	Proof      []Node `json:"proof"`
	ProofFlags []bool `json:"proofFlags"`
}

func leftChildIndex(i int) int  { return 2*i + 1 }
func rightChildIndex(i int) int { return 2*i + 2 }

// parentIndex returns the index of i's parent. Callers must ensure i > 0;
// the root has no parent.
func parentIndex(i int) int {
	return (i - 1) / 2
}

// siblingIndex returns the index of i's sibling: a node's sibling is its
// parent's other child. Callers must ensure i > 0; the root has no sibling.
func siblingIndex(i int) int {
	if i%2 == 1 {
		return i + 1
	}
	return i - 1
}

// isTreeNode reports whether i names a node within tree's bounds.
func isTreeNode(tree []Node, i int) bool {
	return i >= 0 && i < len(tree)
}

// isInternalNode reports whether i is an internal node: one with at least a
// left child.
func isInternalNode(tree []Node, i int) bool {
	return isTreeNode(tree, leftChildIndex(i))
}

// isLeafNode reports whether i is a leaf: a valid node with no children.
func isLeafNode(tree []Node, i int) bool {
	return isTreeNode(tree, i) && !isInternalNode(tree, i)
}

func checkLeafNode(tree []Node, i int) error {
	if !isLeafNode(tree, i) {
		return invalidArgumentf("index %d is not a leaf node", i)
	}
	return nil
}

// MakeMerkleTree builds the flat complete-binary-tree array from a
// non-empty list of leaf digests. Leaves are placed at the tail of the
// array in reverse input order (input[0] lands at the last slot), which
// gives "k-th input leaf" the closed-form tree index size-1-k. Internal
// nodes are then filled bottom-up with nodeHash. nodeHash defaults to
// StandardNodeHash when nil.
func MakeMerkleTree(leaves []Node, nodeHash NodeHashFn) ([]Node, error) {
	if len(leaves) == 0 {
		return nil, invalidArgument("cannot build merkle tree with zero elements")
	}
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}

	size := 2*len(leaves) - 1
	tree := make([]Node, size)
	for k, leaf := range leaves {
		tree[size-1-k] = leaf
	}

	for i := size - len(leaves) - 1; i >= 0; i-- {
		tree[i] = nodeHash(tree[leftChildIndex(i)], tree[rightChildIndex(i)])
	}
	return tree, nil
}

// GetProof returns the sibling digests encountered walking from leaf index i
// up to (but not including) the root. i must be a leaf index.
func GetProof(tree []Node, i int) ([]Node, error) {
	if err := checkLeafNode(tree, i); err != nil {
		return nil, err
	}
	var proof []Node
	for i > 0 {
		proof = append(proof, tree[siblingIndex(i)])
		i = parentIndex(i)
	}
	return proof, nil
}

// ProcessProof folds proof into leaf left-to-right, returning the implied
// root. Because the default nodeHash sorts its pair, callers need not track
// sibling order. nodeHash defaults to StandardNodeHash when nil.
func ProcessProof(leaf Node, proof []Node, nodeHash NodeHashFn) Node {
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}
	acc := leaf
	for _, sibling := range proof {
		acc = nodeHash(sibling, acc)
	}
	return acc
}

// GetMultiProof generates a multiproof for a set of leaf tree-indices,
// matching the algorithm the on-chain MerkleProof.multiProofVerify expects.
// indices must all be leaves and pairwise distinct. An empty indices list is
// the documented degenerate case: it returns {Leaves: nil, Proof: [root],
// ProofFlags: nil}.
func GetMultiProof(tree []Node, indices []int) (MultiProof, error) {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if err := checkLeafNode(tree, i); err != nil {
			return MultiProof{}, err
		}
		if seen[i] {
			return MultiProof{}, invalidArgumentf("duplicate leaf index %d in multiproof request", i)
		}
		seen[i] = true
	}

	if len(indices) == 0 {
		return MultiProof{Proof: []Node{tree[0]}}, nil
	}

	sorted := append([]int(nil), indices...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] < sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	leaves := make([]Node, len(sorted))
	for k, idx := range sorted {
		leaves[k] = tree[idx]
	}

	stack := append([]int(nil), sorted...)
	var proof []Node
	var proofFlags []bool

	for len(stack) > 0 && stack[0] > 0 {
		j := stack[0]
		stack = stack[1:]

		s := siblingIndex(j)
		p := parentIndex(j)

		if len(stack) > 0 && stack[0] == s {
			proofFlags = append(proofFlags, true)
			stack = stack[1:]
		} else {
			proofFlags = append(proofFlags, false)
			proof = append(proof, tree[s])
		}
		stack = append(stack, p)
	}

	return MultiProof{Leaves: leaves, Proof: proof, ProofFlags: proofFlags}, nil
}

// ProcessMultiProof verifies the structural shape of mp and then folds it
// into the implied root, matching the on-chain multiProofVerify algorithm.
// nodeHash defaults to StandardNodeHash when nil.
func ProcessMultiProof(mp MultiProof, nodeHash NodeHashFn) (Node, error) {
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}

	falseFlags := 0
	for _, f := range mp.ProofFlags {
		if !f {
			falseFlags++
		}
	}
	if len(mp.Proof) < falseFlags {
		return Node{}, invalidArgument("Invalid multiproof format")
	}
	if len(mp.Leaves)+len(mp.Proof) != len(mp.ProofFlags)+1 {
		return Node{}, invalidArgument("Provided leaves and multiproof are not compatible")
	}

	leafQueue := append([]Node(nil), mp.Leaves...)
	proofQueue := append([]Node(nil), mp.Proof...)

	for _, flag := range mp.ProofFlags {
		if len(leafQueue) < 1 {
			return Node{}, invariant("multiproof queue underflow reducing leaves")
		}
		a := leafQueue[0]
		leafQueue = leafQueue[1:]

		var b Node
		if flag {
			if len(leafQueue) < 1 {
				return Node{}, invariant("multiproof queue underflow reducing leaves")
			}
			b = leafQueue[0]
			leafQueue = leafQueue[1:]
		} else {
			if len(proofQueue) < 1 {
				return Node{}, invariant("multiproof queue underflow reducing proof")
			}
			b = proofQueue[0]
			proofQueue = proofQueue[1:]
		}
		leafQueue = append(leafQueue, nodeHash(a, b))
	}

	switch len(leafQueue) + len(proofQueue) {
	case 1:
		if len(leafQueue) == 1 {
			return leafQueue[0], nil
		}
		return proofQueue[0], nil
	default:
		return Node{}, invariant("multiproof did not reduce to a single root")
	}
}

// IsValidMerkleTree reports whether tree is a structurally valid complete
// binary tree: non-empty, every internal node's digest equals
// nodeHash(left, right), and no index has only one child. nodeHash defaults
// to StandardNodeHash when nil.
func IsValidMerkleTree(tree []Node, nodeHash NodeHashFn) bool {
	if len(tree) == 0 {
		return false
	}
	if nodeHash == nil {
		nodeHash = StandardNodeHash
	}
	for i := range tree {
		l, r := leftChildIndex(i), rightChildIndex(i)
		lOK, rOK := isTreeNode(tree, l), isTreeNode(tree, r)
		if lOK != rOK {
			return false
		}
		if rOK && nodeHash(tree[l], tree[r]) != tree[i] {
			return false
		}
	}
	return true
}
