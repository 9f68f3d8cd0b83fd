package model

// KVEntry is a durable key/value pair, used for the visit counter.
type KVEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (KVEntry) TableName() string { return "kv_entries" }
