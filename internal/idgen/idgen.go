// Package idgen hands out waypoint identities.
package idgen

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
)

// Node and step widths keep generated ids within 53 bits so they survive a
// round trip through JavaScript numbers in exported JSON.
const (
	nodeBits = 2
	stepBits = 10

	// MaxNode is the largest node id accepted by NewSnowflake.
	MaxNode = 1<<nodeBits - 1
)

var (
	configureOnce sync.Once

	errInvalidNode = errors.New("snowflake node out of range")
)

type Generator interface {
	NextID() int64
}

type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a time-ordered generator for the given node.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNode {
		return nil, errInvalidNode
	}

	configureOnce.Do(func() {
		snowflake.NodeBits = nodeBits
		snowflake.StepBits = stepBits
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NextID() int64 {
	return s.node.Generate().Int64()
}

// Sequence returns start, start+1, ... It is used by tests and the CLI where
// predictable ids matter more than time ordering.
type Sequence struct {
	next atomic.Int64
}

func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

func (s *Sequence) NextID() int64 {
	return s.next.Add(1) - 1
}
