// Package tasks holds the background jobs driven by the scheduler:
// the TikTok feed poller and the birthday notifier.
package tasks

import "sync"

// LastSeenCache remembers the newest item link announced per guild.
// It lives in memory only and is empty after a restart, so the first
// cycle after startup announces each guild's current newest item.
type LastSeenCache struct {
	mu    sync.RWMutex
	links map[string]string
}

// NewLastSeenCache creates an empty cache
func NewLastSeenCache() *LastSeenCache {
	return &LastSeenCache{links: make(map[string]string)}
}

// Get returns the last announced link of a guild
func (c *LastSeenCache) Get(guildID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	link, ok := c.links[guildID]
	return link, ok
}

// Swap stores link for guildID and reports whether it differs from the previous value
func (c *LastSeenCache) Swap(guildID, link string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.links[guildID]; ok && prev == link {
		return false
	}
	c.links[guildID] = link
	return true
}

// Forget drops the entry of a guild
func (c *LastSeenCache) Forget(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.links, guildID)
}

// Len returns the number of tracked guilds
func (c *LastSeenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.links)
}
