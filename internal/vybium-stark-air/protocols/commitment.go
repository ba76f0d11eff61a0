package protocols

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Commitment is the root digest of one committed tree, as raw field
// element values
type Commitment struct {
	Root []uint64 `json:"root"`
}

// Committer binds column sets into a commitment. The real commitment
// layer (low-degree extension, FRI, decommitments) lives outside this
// module; implementations only need to be binding.
type Committer interface {
	Commit(sets [][]*core.Column) (Commitment, error)
}

// MerkleCommitter hashes every row of a column set with Tip5, builds a
// Merkle tree per set and hashes the set roots together.
type MerkleCommitter struct {
	Workers int
}

// rowBatch is the number of rows hashed per goroutine
const rowBatch = 1024

// Commit implements Committer
func (m *MerkleCommitter) Commit(sets [][]*core.Column) (Commitment, error) {
	var roots []field.Element
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		tree, err := m.buildTree(set)
		if err != nil {
			return Commitment{}, fmt.Errorf("failed to commit column set %d: %w", i, err)
		}
		root := tree.Root()
		roots = append(roots, root[:]...)
	}

	digest := hash.HashVarlen(roots)
	out := Commitment{Root: make([]uint64, len(digest))}
	for i, elem := range digest {
		out.Root[i] = elem.Value()
	}
	return out, nil
}

func (m *MerkleCommitter) buildTree(set []*core.Column) (*merkle.MerkleTree, error) {
	numRows := set[0].Len()
	leaves := make([]hash.Digest, numRows)

	var g errgroup.Group
	g.SetLimit(max(m.Workers, 1))
	for start := 0; start < numRows; start += rowBatch {
		end := min(start+rowBatch, numRows)
		g.Go(func() error {
			for _, col := range set {
				if col.Len() != numRows {
					return fmt.Errorf("columns of unequal length %d and %d", numRows, col.Len())
				}
			}
			rowValues := make([]field.Element, len(set))
			for row := start; row < end; row++ {
				for c, col := range set {
					rowValues[c] = field.New(uint64(col.At(row)))
				}
				leaves[row] = hash.HashVarlen(rowValues)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to hash rows: %w", err)
	}

	tree, err := merkle.New(leaves)
	if err != nil {
		return nil, fmt.Errorf("failed to create Merkle tree: %w", err)
	}
	return tree, nil
}
