// Package idgen issues record identifiers.
//
// Identifiers come from a snowflake node with a narrowed layout (2 node bits,
// 9 step bits, custom epoch) so that every id stays below 2^53 and survives a
// round trip through JSON clients that store numbers as float64.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	nodeBits = 2
	stepBits = 9

	// MaxNode is the highest node number accepted by New.
	MaxNode = 1<<nodeBits - 1
)

// epoch is 2024-01-01T00:00:00Z in milliseconds.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

var layoutOnce sync.Once

// Generator produces strictly increasing int64 identifiers.
type Generator interface {
	NextID() int64
}

// SnowflakeGenerator is a Generator backed by a snowflake node.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// New creates a generator for the given node number (0..MaxNode).
func New(nodeID int64) (*SnowflakeGenerator, error) {
	if nodeID < 0 || nodeID > MaxNode {
		return nil, fmt.Errorf("snowflake node must be between 0 and %d, got %d", MaxNode, nodeID)
	}

	// snowflake keeps its layout in package variables; set them once before any node exists.
	layoutOnce.Do(func() {
		snowflake.Epoch = epoch
		snowflake.NodeBits = nodeBits
		snowflake.StepBits = stepBits
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &SnowflakeGenerator{node: node}, nil
}

// NextID returns the next identifier. Safe for concurrent use.
func (g *SnowflakeGenerator) NextID() int64 {
	return g.node.Generate().Int64()
}
