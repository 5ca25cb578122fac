package mongo

import (
	"time"

	"github.com/ajvb/jobboard/job"

	log "github.com/sirupsen/logrus"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

var (
	DefaultDatabase   = "projectPrototype"
	DefaultCollection = "protoCollection"

	dialTimeout = 10 * time.Second
)

// document is the stored form of a job.
type document struct {
	ID       bson.ObjectId `bson:"_id"`
	Title    string        `bson:"title"`
	Company  string        `bson:"company"`
	Location string        `bson:"location"`
}

func newDocument(f job.Fields) *document {
	return &document{
		ID:       bson.NewObjectId(),
		Title:    f.Title,
		Company:  f.Company,
		Location: f.Location,
	}
}

func (d *document) job() *job.Job {
	return job.New(d.ID.Hex(), job.Fields{
		Title:    d.Title,
		Company:  d.Company,
		Location: d.Location,
	})
}

// DB is concrete implementation of the JobDB interface, that uses MongoDB for persistence.
type DB struct {
	session    *mgo.Session
	database   string
	collection string

	// dialErr is set when no session could be established.
	dialErr error
}

// New instantiates a new DB. A failed connection is logged and leaves the DB
// in a state where every call returns job.ErrStoreUnavailable.
func New(addrs string, cred *mgo.Credential, database, collection string) *DB {
	d := &DB{
		database:   database,
		collection: collection,
	}

	session, err := mgo.DialWithTimeout(addrs, dialTimeout)
	if err != nil {
		log.Errorf("Can't connect to mongo at %s: %s", addrs, err)
		d.dialErr = err
		return d
	}
	if cred != nil && cred.Username != "" {
		if err := session.Login(cred); err != nil {
			log.Errorf("Can't log in to mongo at %s: %s", addrs, err)
			session.Close()
			d.dialErr = err
			return d
		}
	}
	session.SetMode(mgo.Monotonic, true)
	d.session = session

	log.Infof("Connected to mongo, using %s.%s", database, collection)
	return d
}

// c returns a copied session and the jobs collection on it. The caller must
// close the session.
func (d *DB) c() (*mgo.Session, *mgo.Collection, error) {
	if d.session == nil {
		return nil, nil, job.Unavailable(d.dialErr)
	}
	s := d.session.Copy()
	return s, s.DB(d.database).C(d.collection), nil
}

// InsertOne persists a new Job and returns its id.
func (d *DB) InsertOne(f job.Fields) (string, error) {
	s, c, err := d.c()
	if err != nil {
		return "", err
	}
	defer s.Close()

	doc := newDocument(f)
	if err := c.Insert(doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}

// InsertMany persists a batch of Jobs in a single insert.
func (d *DB) InsertMany(fs []job.Fields) ([]string, error) {
	if len(fs) == 0 {
		return []string{}, nil
	}

	s, c, err := d.c()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	docs := make([]interface{}, 0, len(fs))
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		doc := newDocument(f)
		docs = append(docs, doc)
		ids = append(ids, doc.ID.Hex())
	}
	if err := c.Insert(docs...); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAll returns all persisted Jobs.
func (d *DB) FindAll() ([]*job.Job, error) {
	s, c, err := d.c()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	docs := []document{}
	if err := c.Find(nil).All(&docs); err != nil {
		return nil, err
	}
	jobs := make([]*job.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].job())
	}
	return jobs, nil
}

// FindOne returns a persisted Job.
func (d *DB) FindOne(id string) (*job.Job, error) {
	oid, err := job.ParseID(id)
	if err != nil {
		return nil, err
	}
	s, c, err := d.c()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	doc := document{}
	err = c.FindId(oid).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.job(), nil
}

// UpdateOne sets all three fields of a persisted Job.
func (d *DB) UpdateOne(id string, f job.Fields) (int, error) {
	oid, err := job.ParseID(id)
	if err != nil {
		return 0, err
	}
	s, c, err := d.c()
	if err != nil {
		return 0, err
	}
	defer s.Close()

	err = c.UpdateId(oid, bson.M{"$set": bson.M{
		"title":    f.Title,
		"company":  f.Company,
		"location": f.Location,
	}})
	if err == mgo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// DeleteOne deletes a persisted Job.
func (d *DB) DeleteOne(id string) (int, error) {
	oid, err := job.ParseID(id)
	if err != nil {
		return 0, err
	}
	s, c, err := d.c()
	if err != nil {
		return 0, err
	}
	defer s.Close()

	err = c.RemoveId(oid)
	if err == mgo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// Count returns the number of persisted Jobs.
func (d *DB) Count() (int, error) {
	s, c, err := d.c()
	if err != nil {
		return 0, err
	}
	defer s.Close()

	return c.Count()
}

// Close closes the connection to Mongo.
func (d *DB) Close() error {
	if d.session != nil {
		d.session.Close()
	}
	return nil
}
