package idgen

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init snowflake düğümünü ayarlar. Çağrılmazsa ilk kullanımda 1 numaralı düğüm açılır.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func GenerateID() int64 {
	mu.Lock()
	if node == nil {
		n, err := snowflake.NewNode(1)
		if err != nil {
			mu.Unlock()
			panic(err)
		}
		node = n
	}
	n := node
	mu.Unlock()
	return n.Generate().Int64()
}

// WorkOrderNumber iş emri numarası üretir
func WorkOrderNumber() string {
	return strconv.FormatInt(GenerateID(), 10)
}
