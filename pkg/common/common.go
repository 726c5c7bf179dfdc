package common

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	idNode *snowflake.Node
	idOnce sync.Once
)

// UUIDint64 returns a process-unique int64 identifier (snowflake).
func UUIDint64() int64 {
	idOnce.Do(func() {
		var err error
		idNode, err = snowflake.NewNode(rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(1023))
		if err != nil {
			// node id out of range cannot happen with the bounded source
			panic(err)
		}
	})
	return idNode.Generate().Int64()
}
