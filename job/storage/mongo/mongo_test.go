package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/ajvb/jobboard/job"

	"github.com/stretchr/testify/assert"
)

func NewUnreachableDb(t *testing.T) *DB {
	old := dialTimeout
	dialTimeout = 200 * time.Millisecond
	t.Cleanup(func() { dialTimeout = old })

	return New("127.0.0.1:1", nil, DefaultDatabase, DefaultCollection)
}

func TestNewUnreachableDoesNotFail(t *testing.T) {
	db := NewUnreachableDb(t)
	defer db.Close()

	assert.Nil(t, db.session)
	assert.Error(t, db.dialErr)
}

func TestUnreachableCallsFail(t *testing.T) {
	db := NewUnreachableDb(t)
	id := job.NewID()

	_, err := db.InsertOne(job.GetMockFields())
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.InsertMany([]job.Fields{job.GetMockFields()})
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.FindAll()
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.FindOne(id)
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.UpdateOne(id, job.GetMockFields())
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.DeleteOne(id)
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))

	_, err = db.Count()
	assert.True(t, errors.Is(err, job.ErrStoreUnavailable))
}

func TestMalformedIDIsCheckedFirst(t *testing.T) {
	db := NewUnreachableDb(t)

	_, err := db.FindOne("66eb21b2")
	assert.True(t, errors.Is(err, job.ErrInvalidID))

	_, err = db.UpdateOne("66eb21b2", job.GetMockFields())
	assert.True(t, errors.Is(err, job.ErrInvalidID))

	_, err = db.DeleteOne("66eb21b2")
	assert.True(t, errors.Is(err, job.ErrInvalidID))
}

func TestInsertManyEmpty(t *testing.T) {
	db := NewUnreachableDb(t)

	ids, err := db.InsertMany(nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := newDocument(job.GetMockFields())
	assert.True(t, doc.ID.Valid())

	j := doc.job()
	assert.Equal(t, doc.ID.Hex(), j.ID)
	assert.Equal(t, job.GetMockFields(), j.Fields)
}
