package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init pins the snowflake node ID. Must run before the first New to take
// effect; in a single-process CLI it is optional and New falls back to
// node 1.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered unique int64, used for run and transcript
// row IDs so rows sort in creation order without an extra timestamp sort.
func New() int64 {
	once.Do(func() {
		node, _ = snowflake.NewNode(1)
	})
	return node.Generate().Int64()
}
