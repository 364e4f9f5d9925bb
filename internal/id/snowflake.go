// Package id hands out time-ordered identifiers for client-generated records.
package id

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init initializes the Snowflake node with the given node ID. Only the first
// call has an effect.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// New returns a decimal identifier derived from the current time. When the
// node could not be initialised it falls back to the Unix time in nanoseconds.
func New() string {
	if err := Init(1); err != nil || node == nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return node.Generate().String()
}

// Time extracts the creation time embedded in an identifier produced by New.
func Time(s string) (time.Time, bool) {
	parsed, err := snowflake.ParseString(s)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(parsed.Time()), true
}
