// Package merkle provides merkle root and inclusion proof support for
// the transactions committed into a block. The tree is computed over
// flat, ordered levels of hex digest strings rather than a linked node
// structure; padding and pairing order are fixed, so two parties that
// hold the same ordered leaves always derive the same root.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrNotFound is returned from Proof when the target digest is not
// present in the set of leaves.
var ErrNotFound = errors.New("target not found in leaves")

// Side identifies where a proof sibling sits relative to the hash
// being folded up the tree.
type Side string

// Set of sibling positions.
const (
	SideLeft  Side = "L"
	SideRight Side = "R"
)

// ProofStep is one level of an inclusion proof: the sibling digest and
// which side of the running hash it is concatenated on.
type ProofStep struct {
	Sibling string `json:"sibling"`
	Side    Side   `json:"side"`
}

// =============================================================================

// Root computes the merkle root for an ordered list of leaf digests.
// An odd level is padded by duplicating its last element. The root of
// zero leaves is defined as the digest of the empty byte string, not
// an error.
func Root(leaves []string) string {
	if len(leaves) == 0 {
		return hashPair("", "")
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, hashPair(level[i], level[i+1]))
		}
		level = next
	}

	return level[0]
}

// Proof produces the inclusion proof for the specified target digest:
// the ordered sequence of sibling digests from leaf level to root.
// When the same digest appears more than once in the leaves, the proof
// is produced for its first occurrence. ErrNotFound is returned if the
// target is not a leaf.
func Proof(leaves []string, target string) ([]ProofStep, error) {
	idx := -1
	for i, leaf := range leaves {
		if leaf == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	var path []ProofStep
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		sibIdx := idx ^ 1
		side := SideRight
		if sibIdx < idx {
			side = SideLeft
		}
		path = append(path, ProofStep{Sibling: level[sibIdx], Side: side})

		next := make([]string, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, hashPair(level[i], level[i+1]))
		}
		level = next
		idx /= 2
	}

	return path, nil
}

// VerifyProof folds the proof starting from the target digest and
// reports whether the final value matches the expected root.
func VerifyProof(target string, proof []ProofStep, root string) bool {
	cur := target
	for _, step := range proof {
		switch step.Side {
		case SideLeft:
			cur = hashPair(step.Sibling, cur)
		case SideRight:
			cur = hashPair(cur, step.Sibling)
		default:
			return false
		}
	}

	return cur == root
}

// =============================================================================

// hashPair digests the concatenation of two hex digest strings. The
// concatenation happens over the hex text, not the decoded bytes, so
// the scheme stays byte-for-byte reproducible from serialized blocks.
func hashPair(a string, b string) string {
	hash := sha256.Sum256([]byte(a + b))
	return hex.EncodeToString(hash[:])
}
