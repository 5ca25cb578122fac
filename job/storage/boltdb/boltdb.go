package boltdb

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/ajvb/jobboard/job"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const fileName = "jobdb.db"

// GetBoltDB opens (creating if needed) jobdb.db inside the directory at path
// and stores jobs in the named bucket. Open failures are logged and leave a
// DB whose calls return job.ErrStoreUnavailable.
func GetBoltDB(path, bucket string) *BoltJobDB {
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	path += fileName

	db := &BoltJobDB{
		path:   path,
		bucket: []byte(bucket),
	}

	var perms os.FileMode = 0o0600
	database, err := bolt.Open(path, perms, &bolt.Options{Timeout: time.Second * 10}) //nolint:gomnd
	if err != nil {
		log.Errorf("Can't open bolt database at %s: %s", path, err)
		db.openErr = err
		return db
	}
	db.dbConn = database
	return db
}

type BoltJobDB struct {
	dbConn  *bolt.DB
	path    string
	bucket  []byte
	openErr error
}

func (db *BoltJobDB) Close() error {
	if db.dbConn == nil {
		return nil
	}
	return db.dbConn.Close()
}

func (db *BoltJobDB) view(fn func(b *bolt.Bucket) error) error {
	if db.dbConn == nil {
		return job.Unavailable(db.openErr)
	}
	return db.dbConn.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(db.bucket))
	})
}

func (db *BoltJobDB) update(fn func(b *bolt.Bucket) error) error {
	if db.dbConn == nil {
		return job.Unavailable(db.openErr)
	}
	return db.dbConn.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(db.bucket)
		if err != nil {
			return err
		}
		return fn(bucket)
	})
}

func put(b *bolt.Bucket, j *job.Job) error {
	v, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return b.Put([]byte(j.ID), v)
}

func (db *BoltJobDB) InsertOne(f job.Fields) (string, error) {
	ids, err := db.InsertMany([]job.Fields{f})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertMany stores the whole batch in one transaction.
func (db *BoltJobDB) InsertMany(fs []job.Fields) ([]string, error) {
	if len(fs) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(fs))
	err := db.update(func(b *bolt.Bucket) error {
		for _, f := range fs {
			j := job.New(job.NewID(), f)
			if err := put(b, j); err != nil {
				return err
			}
			ids = append(ids, j.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (db *BoltJobDB) FindAll() ([]*job.Job, error) {
	allJobs := []*job.Job{}

	err := db.view(func(b *bolt.Bucket) error {
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			j := new(job.Job)
			if err := json.Unmarshal(v, j); err != nil {
				return err
			}
			allJobs = append(allJobs, j)
			return nil
		})
	})

	return allJobs, err
}

func (db *BoltJobDB) FindOne(id string) (*job.Job, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return nil, err
	}

	j := new(job.Job)
	err = db.view(func(b *bolt.Bucket) error {
		if b == nil {
			return job.ErrJobNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return job.ErrJobNotFound
		}
		return json.Unmarshal(v, j)
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (db *BoltJobDB) UpdateOne(id string, f job.Fields) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}

	n := 0
	err = db.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(id)) == nil {
			return nil
		}
		n = 1
		return put(b, job.New(id, f))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (db *BoltJobDB) DeleteOne(id string) (int, error) {
	id, err := job.CanonicalID(id)
	if err != nil {
		return 0, err
	}

	n := 0
	err = db.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(id)) == nil {
			return nil
		}
		n = 1
		return b.Delete([]byte(id))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (db *BoltJobDB) Count() (int, error) {
	n := 0
	err := db.view(func(b *bolt.Bucket) error {
		if b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}
