package kafka

import (
	"errors"
	"strings"
	"time"

	"kafka-governance/internal/model"
	"kafka-governance/internal/sync"
	"kafka-governance/pkg/config"
	"kafka-governance/prometheus"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Inventory serves cluster topic inventories through a per-(cluster,
// tenant) cache and provisions topics during sync-back. It implements the
// sync package's InventoryFetcher and Provisioner contracts.
type Inventory struct {
	cfg *config.KafkaConfig
	log *zap.Logger

	// list is the live cluster scan, replaceable in tests
	list func(cluster *model.Cluster) ([]model.ClusterTopic, error)

	cache topicCache
}

func NewInventory(cfg *config.KafkaConfig, log *zap.Logger) *Inventory {
	inv := &Inventory{
		cfg:   cfg,
		log:   log,
		cache: newTopicCache(),
	}
	inv.list = inv.listClusterTopics
	return inv
}

func (inv *Inventory) adminConfig() (*sarama.Config, error) {
	version, err := sarama.ParseKafkaVersion(inv.cfg.Version)
	if err != nil {
		return nil, err
	}
	sc := sarama.NewConfig()
	sc.ClientID = inv.cfg.ClientID
	sc.Version = version
	sc.Net.DialTimeout = inv.cfg.DialTimeout
	sc.Admin.Timeout = inv.cfg.DialTimeout
	return sc, nil
}

func (inv *Inventory) newAdmin(cluster *model.Cluster) (sarama.ClusterAdmin, error) {
	sc, err := inv.adminConfig()
	if err != nil {
		return nil, err
	}
	return sarama.NewClusterAdmin(strings.Split(cluster.BootstrapServers, ","), sc)
}

// listClusterTopics scans a live cluster for its current topic set
func (inv *Inventory) listClusterTopics(cluster *model.Cluster) ([]model.ClusterTopic, error) {
	start := time.Now()

	admin, err := inv.newAdmin(cluster)
	if err != nil {
		prometheus.RecordClusterFetchError(cluster.Name)
		return nil, err
	}
	defer admin.Close()

	details, err := admin.ListTopics()
	if err != nil {
		prometheus.RecordClusterFetchError(cluster.Name)
		return nil, err
	}

	topics := make([]model.ClusterTopic, 0, len(details))
	for name, detail := range details {
		topics = append(topics, model.ClusterTopic{
			Name:              name,
			Partitions:        int(detail.NumPartitions),
			ReplicationFactor: int(detail.ReplicationFactor),
		})
	}

	prometheus.RecordClusterFetch(cluster.Name, time.Since(start).Seconds())
	return topics, nil
}

// CreateTopic provisions a topic on a live cluster. An already existing
// topic is reported as sync.ErrTopicExists so callers can treat it as a
// per-topic note instead of a failure.
func (inv *Inventory) CreateTopic(cluster *model.Cluster, topic model.ClusterTopic) error {
	admin, err := inv.newAdmin(cluster)
	if err != nil {
		return err
	}
	defer admin.Close()

	detail := &sarama.TopicDetail{
		NumPartitions:     int32(topic.Partitions),
		ReplicationFactor: int16(topic.ReplicationFactor),
	}
	err = admin.CreateTopic(topic.Name, detail, false)
	if err == nil {
		return nil
	}

	if errors.Is(err, sarama.ErrTopicAlreadyExists) {
		return sync.ErrTopicExists
	}
	var topicErr *sarama.TopicError
	if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
		return sync.ErrTopicExists
	}
	return err
}
