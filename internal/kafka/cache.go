package kafka

import (
	gosync "sync"
	"time"

	"kafka-governance/internal/model"

	"go.uber.org/zap"
)

// Cache states of one (cluster, tenant) inventory. Transitions are
// EMPTY → LOADING → READY, with READY → LOADING on refresh; reads return
// the current contents immediately and never block on a transition.
type cacheState int

const (
	stateEmpty cacheState = iota
	stateLoading
	stateReady
)

type cacheKey struct {
	clusterID uint
	tenantID  uint
}

type cacheEntry struct {
	state     cacheState
	topics    []model.ClusterTopic
	fetchedAt time.Time
}

type topicCache struct {
	mu      gosync.Mutex
	entries map[cacheKey]*cacheEntry
}

func newTopicCache() topicCache {
	return topicCache{entries: make(map[cacheKey]*cacheEntry)}
}

// FetchTopics returns the cached inventory of a cluster. A read that finds
// no ready data, or that forces a refresh, starts a background fetch and
// returns the current (stale or empty) contents with the loading flag set;
// concurrent triggers coalesce onto the fetch already underway.
func (inv *Inventory) FetchTopics(cluster *model.Cluster, tenantID uint, forceRefresh bool) ([]model.ClusterTopic, bool, error) {
	key := cacheKey{clusterID: cluster.ID, tenantID: tenantID}

	inv.cache.mu.Lock()
	entry, ok := inv.cache.entries[key]
	if !ok {
		entry = &cacheEntry{}
		inv.cache.entries[key] = entry
	}

	switch entry.state {
	case stateReady:
		if !forceRefresh {
			topics := entry.topics
			inv.cache.mu.Unlock()
			return topics, false, nil
		}
	case stateLoading:
		topics := entry.topics
		inv.cache.mu.Unlock()
		return topics, true, nil
	}

	previous := entry.state
	entry.state = stateLoading
	stale := entry.topics
	inv.cache.mu.Unlock()

	go inv.load(key, cluster, previous)

	return stale, true, nil
}

// load runs the live cluster scan and publishes the result. A failed scan
// restores the previous state so stale data keeps being served and a later
// read retries.
func (inv *Inventory) load(key cacheKey, cluster *model.Cluster, previous cacheState) {
	topics, err := inv.list(cluster)

	inv.cache.mu.Lock()
	defer inv.cache.mu.Unlock()

	entry, ok := inv.cache.entries[key]
	if !ok {
		return
	}
	if err != nil {
		inv.log.Error("cluster topic fetch failed",
			zap.Uint("cluster_id", key.clusterID),
			zap.Uint("tenant_id", key.tenantID),
			zap.Error(err))
		entry.state = previous
		return
	}

	entry.state = stateReady
	entry.topics = topics
	entry.fetchedAt = time.Now()
}

// Invalidate drops the ready state of a (cluster, tenant) inventory; the
// stale contents keep being served until the next read triggers a reload.
func (inv *Inventory) Invalidate(clusterID, tenantID uint) {
	key := cacheKey{clusterID: clusterID, tenantID: tenantID}

	inv.cache.mu.Lock()
	defer inv.cache.mu.Unlock()

	entry, ok := inv.cache.entries[key]
	if !ok || entry.state == stateLoading {
		return
	}
	entry.state = stateEmpty
}
