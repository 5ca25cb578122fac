package consul

import (
	"encoding/json"
	"path"

	"github.com/ajvb/jobboard/job"

	"github.com/hashicorp/consul/api"
	log "github.com/sirupsen/logrus"
)

// DB is concrete implementation of the JobDB interface, that uses Consul for persistence.
// Each job is a JSON value under <prefix>/<id>.
type DB struct {
	conn         *api.Client
	queryOptions *api.QueryOptions
	writeOptions *api.WriteOptions
	keyprefix    string
}

// New instantiates a new DB.
func New(address, prefix string) *DB {

	config := &api.Config{
		Address: address,
	}

	queryOptions := &api.QueryOptions{
		RequireConsistent: true,
	}

	writeOptions := &api.WriteOptions{}

	conn, err := api.NewClient(config)

	if err != nil {
		log.Fatal(err)
	}

	if _, err := conn.Status().Leader(); err != nil {
		log.Errorf("Can't reach consul at %s: %s", address, err)
	}

	return &DB{
		conn:         conn,
		queryOptions: queryOptions,
		writeOptions: writeOptions,
		keyprefix:    prefix,
	}
}

func (d DB) key(id string) string {
	return path.Join(d.keyprefix, id)
}

func (d DB) put(j *job.Job) error {
	bytes, err := json.Marshal(j)
	if err != nil {
		return err
	}

	jobKV := &api.KVPair{
		Key:   d.key(j.ID),
		Value: bytes,
	}

	_, err = d.conn.KV().Put(jobKV, d.writeOptions)
	return err
}

func (d DB) InsertOne(f job.Fields) (string, error) {
	j := job.New(job.NewID(), f)
	if err := d.put(j); err != nil {
		return "", err
	}
	return j.ID, nil
}

// InsertMany puts each job in turn; a failure part way leaves the earlier
// jobs stored.
func (d DB) InsertMany(fs []job.Fields) ([]string, error) {
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		id, err := d.InsertOne(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindAll returns all persisted Jobs.
func (d DB) FindAll() ([]*job.Job, error) {
	jobs := []*job.Job{}

	pairs, _, err := d.conn.KV().List(d.keyprefix+"/", d.queryOptions)
	if err != nil {
		return nil, err
	}

	for _, kv := range pairs {
		j := &job.Job{}
		if err := json.Unmarshal(kv.Value, j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

func (d DB) get(id string) (*api.KVPair, error) {
	kv, _, err := d.conn.KV().Get(d.key(id), d.queryOptions)
	return kv, err
}

// FindOne returns a persisted Job.
func (d DB) FindOne(id string) (*job.Job, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return nil, err
	}
	kv, err := d.get(id)
	if err != nil {
		return nil, err
	}
	if kv == nil || kv.Value == nil {
		return nil, job.ErrJobNotFound
	}

	j := &job.Job{}
	if err := json.Unmarshal(kv.Value, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (d DB) UpdateOne(id string, f job.Fields) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	kv, err := d.get(id)
	if err != nil {
		return 0, err
	}
	if kv == nil {
		return 0, nil
	}
	if err := d.put(job.New(id, f)); err != nil {
		return 0, err
	}
	return 1, nil
}

// DeleteOne deletes a persisted Job.
func (d DB) DeleteOne(id string) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	kv, err := d.get(id)
	if err != nil {
		return 0, err
	}
	if kv == nil {
		return 0, nil
	}
	if _, err := d.conn.KV().Delete(d.key(id), d.writeOptions); err != nil {
		return 0, err
	}
	return 1, nil
}

func (d DB) Count() (int, error) {
	keys, _, err := d.conn.KV().Keys(d.keyprefix+"/", "", d.queryOptions)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Consul API client does not support a close method
func (d DB) Close() error {
	return nil
}
