package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionStartKey returns the cache key for a session's start timestamp.
func (r *CacheKeyStruct) SessionStartKey(sessionID string) string {
	return fmt.Sprintf("session:%s:started_at", sessionID)
}

// SessionSubmitLockKey returns the lock key serializing answer
// submissions for one session.
func (r *CacheKeyStruct) SessionSubmitLockKey(sessionID string) string {
	return fmt.Sprintf("session:%s:submit_lock", sessionID)
}

// GenerationStatusKey returns the hash key tracking the batch
// generation job status.
func (r *CacheKeyStruct) GenerationStatusKey() string {
	return "generation:status"
}

var CacheKey = NewCacheKeyStruct()
