package sync

import (
	"errors"
	"sort"

	"kafka-governance/internal/model"

	"go.uber.org/zap"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	topics   []model.Topic
	teams    []model.Team
	envs     []model.Environment
	clusters []model.Cluster
	tenants  []model.Tenant
	requests []model.TopicRequest

	saved    []model.Topic
	deleted  []uint
	approved []uint
	nextID   uint
}

func (f *fakeStore) SyncTopics(environmentID, teamID, tenantID uint) ([]model.Topic, error) {
	var out []model.Topic
	for _, t := range f.topics {
		if t.TenantID != tenantID {
			continue
		}
		if environmentID != 0 && t.EnvironmentID != environmentID {
			continue
		}
		if teamID != 0 && t.TeamID != teamID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) TopicsByName(name string, tenantID uint) ([]model.Topic, error) {
	var out []model.Topic
	for _, t := range f.topics {
		if t.Name == name && t.TenantID == tenantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) TopicByID(id, tenantID uint) (*model.Topic, error) {
	for _, t := range f.topics {
		if t.ID == id && t.TenantID == tenantID {
			topic := t
			return &topic, nil
		}
	}
	return nil, errors.New("topic not found")
}

func (f *fakeStore) SaveTopics(topics []model.Topic) error {
	for _, topic := range topics {
		if topic.ID == 0 {
			f.nextID++
			topic.ID = f.nextID + 1000
			f.topics = append(f.topics, topic)
		} else {
			for i, existing := range f.topics {
				if existing.ID == topic.ID {
					f.topics[i] = topic
				}
			}
		}
		f.saved = append(f.saved, topic)
	}
	return nil
}

func (f *fakeStore) DeleteTopic(id, tenantID uint) error {
	f.deleted = append(f.deleted, id)
	for i, t := range f.topics {
		if t.ID == id && t.TenantID == tenantID {
			f.topics = append(f.topics[:i], f.topics[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) TeamsForTenant(tenantID uint) ([]model.Team, error) {
	var out []model.Team
	for _, team := range f.teams {
		if team.TenantID == tenantID {
			out = append(out, team)
		}
	}
	return out, nil
}

func (f *fakeStore) Environment(id, tenantID uint) (*model.Environment, error) {
	for _, env := range f.envs {
		if env.ID == id && env.TenantID == tenantID {
			e := env
			return &e, nil
		}
	}
	return nil, errors.New("environment not found")
}

func (f *fakeStore) EnvironmentsForTenant(tenantID uint) ([]model.Environment, error) {
	var out []model.Environment
	for _, env := range f.envs {
		if env.TenantID == tenantID {
			out = append(out, env)
		}
	}
	return out, nil
}

func (f *fakeStore) Cluster(id, tenantID uint) (*model.Cluster, error) {
	for _, cluster := range f.clusters {
		if cluster.ID == id && cluster.TenantID == tenantID {
			c := cluster
			return &c, nil
		}
	}
	return nil, errors.New("cluster not found")
}

func (f *fakeStore) Tenant(id uint) (*model.Tenant, error) {
	for _, tenant := range f.tenants {
		if tenant.ID == id {
			t := tenant
			return &t, nil
		}
	}
	return nil, errors.New("tenant not found")
}

func (f *fakeStore) Tenants() ([]model.Tenant, error) {
	return f.tenants, nil
}

func (f *fakeStore) CreateTopicRequest(req *model.TopicRequest) error {
	f.nextID++
	req.ID = f.nextID
	f.requests = append(f.requests, *req)
	return nil
}

func (f *fakeStore) ApproveTopicRequest(id uint, approver string) (*model.Topic, error) {
	f.approved = append(f.approved, id)
	for _, req := range f.requests {
		if req.ID == id {
			topic := model.Topic{
				Name:              req.Name,
				EnvironmentID:     req.EnvironmentID,
				Partitions:        req.Partitions,
				ReplicationFactor: req.ReplicationFactor,
				TeamID:            req.TeamID,
				TenantID:          req.TenantID,
			}
			f.nextID++
			topic.ID = f.nextID + 2000
			f.topics = append(f.topics, topic)
			return &topic, nil
		}
	}
	return nil, errors.New("request not found")
}

// fakeInventory serves a canned topic list and records invalidations
type fakeInventory struct {
	topics      []model.ClusterTopic
	loading     bool
	err         error
	invalidated []uint
}

func (f *fakeInventory) FetchTopics(cluster *model.Cluster, tenantID uint, forceRefresh bool) ([]model.ClusterTopic, bool, error) {
	return f.topics, f.loading, f.err
}

func (f *fakeInventory) Invalidate(clusterID, tenantID uint) {
	f.invalidated = append(f.invalidated, clusterID)
}

// fakeProvisioner records created topics and fails on demand
type fakeProvisioner struct {
	created []model.ClusterTopic
	errs    map[string]error
}

func (f *fakeProvisioner) CreateTopic(cluster *model.Cluster, topic model.ClusterTopic) error {
	if err := f.errs[topic.Name]; err != nil {
		return err
	}
	f.created = append(f.created, topic)
	return nil
}

func newTestService(store *fakeStore, inventory *fakeInventory, provisioner *fakeProvisioner) *Service {
	if inventory == nil {
		inventory = &fakeInventory{}
	}
	if provisioner == nil {
		provisioner = &fakeProvisioner{}
	}
	return NewService(store, inventory, provisioner, zap.NewNop())
}

func operatorPrincipal(tenantID uint, perms ...string) *Principal {
	return &Principal{
		UserName:    "operator@example.com",
		TenantID:    tenantID,
		Permissions: perms,
	}
}
