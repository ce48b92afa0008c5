package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// Roster returns the cache key for the unfiltered student roster.
func (r *CacheKeyStruct) Roster() string {
	return "roster:students"
}

// RosterChannel returns the Redis PubSub channel name for roster changes.
// Reserved for multi-instance fanout; a single instance broadcasts through
// the in-process hub.
func (r *CacheKeyStruct) RosterChannel() string {
	return "roster:events"
}

var CacheKey = NewCacheKeyStruct()
