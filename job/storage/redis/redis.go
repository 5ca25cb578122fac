package redis

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ajvb/jobboard/job"

	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
)

// pool hands out connections; *redis.Pool satisfies it.
type pool interface {
	Get() redis.Conn
	Close() error
}

// DB is concrete implementation of the JobDB interface, that uses Redis for persistence.
// Jobs are JSON values in a single hash, keyed by id.
type DB struct {
	pool    pool
	hashKey string
}

// New instantiates a new DB. An unreachable server is logged; calls made
// while it stays unreachable return the dial error.
func New(address, hashKey string, options ...redis.DialOption) *DB {
	p := &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address, options...)
		},
	}

	conn := p.Get()
	if _, err := conn.Do("PING"); err != nil {
		log.Errorf("Can't connect to redis at %s: %s", address, err)
	}
	conn.Close()

	return &DB{
		pool:    p,
		hashKey: hashKey,
	}
}

func (d DB) conn() (redis.Conn, error) {
	conn := d.pool.Get()
	if err := conn.Err(); err != nil {
		conn.Close()
		return nil, job.Unavailable(err)
	}
	return conn, nil
}

func (d DB) InsertOne(f job.Fields) (string, error) {
	ids, err := d.InsertMany([]job.Fields{f})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertMany writes the whole batch with a single HSET.
func (d DB) InsertMany(fs []job.Fields) ([]string, error) {
	if len(fs) == 0 {
		return []string{}, nil
	}

	args := redis.Args{}.Add(d.hashKey)
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		j := job.New(job.NewID(), f)
		bytes, err := json.Marshal(j)
		if err != nil {
			return nil, err
		}
		args = args.Add(j.ID, bytes)
		ids = append(ids, j.ID)
	}

	conn, err := d.conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Do("HSET", args...); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAll returns all persisted Jobs ordered by id, which is creation order.
func (d DB) FindAll() ([]*job.Job, error) {
	conn, err := d.conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	vals, err := redis.ByteSlices(conn.Do("HVALS", d.hashKey))
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(vals))
	for _, val := range vals {
		j := &job.Job{}
		if err := json.Unmarshal(val, j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].ID < jobs[b].ID })

	return jobs, nil
}

func (d DB) FindOne(id string) (*job.Job, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return nil, err
	}
	conn, err := d.conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	val, err := redis.Bytes(conn.Do("HGET", d.hashKey, id))
	if err == redis.ErrNil {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	j := &job.Job{}
	if err := json.Unmarshal(val, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (d DB) UpdateOne(id string, f job.Fields) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	bytes, err := json.Marshal(job.New(id, f))
	if err != nil {
		return 0, err
	}
	conn, err := d.conn()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	exists, err := redis.Bool(conn.Do("HEXISTS", d.hashKey, id))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	if _, err := conn.Do("HSET", d.hashKey, id, bytes); err != nil {
		return 0, err
	}
	return 1, nil
}

func (d DB) DeleteOne(id string) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}
	conn, err := d.conn()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return redis.Int(conn.Do("HDEL", d.hashKey, id))
}

func (d DB) Count() (int, error) {
	conn, err := d.conn()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return redis.Int(conn.Do("HLEN", d.hashKey))
}

// Close closes the connection pool.
func (d DB) Close() error {
	return d.pool.Close()
}
