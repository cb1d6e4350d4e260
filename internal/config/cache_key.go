package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the key holding the admin id for an issued token jti.
func (r *CacheKeyStruct) AdminSessionKey(jti string) string {
	return fmt.Sprintf("admin_session:%s", jti)
}

// AnalyticsDayKey returns the hash of event counters for one UTC day.
func (r *CacheKeyStruct) AnalyticsDayKey(day time.Time) string {
	return fmt.Sprintf("analytics:%s", day.UTC().Format("2006-01-02"))
}

// ActivityChannel is the Redis PubSub channel the admin activity feed listens on.
func (r *CacheKeyStruct) ActivityChannel() string {
	return "activity:feed"
}

var CacheKey = NewCacheKeyStruct()
