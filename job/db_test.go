package job

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDBInsertAndFind(t *testing.T) {
	db := &MockDB{}

	id, err := db.InsertOne(GetMockFields())
	require.NoError(t, err)

	j, err := db.FindOne(id)
	require.NoError(t, err)
	assert.Equal(t, id, j.ID)
	assert.Equal(t, GetMockFields(), j.Fields)
}

func TestMockDBInsertMany(t *testing.T) {
	db := &MockDB{}
	_, err := db.InsertOne(GetMockFields())
	require.NoError(t, err)

	ids, err := db.InsertMany([]Fields{GetMockFields(), GetMockFields(), GetMockFields()})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	n, err := db.Count()
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	jobs, err := db.FindAll()
	assert.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, ids, []string{jobs[1].ID, jobs[2].ID, jobs[3].ID})
}

func TestMockDBFindOneNotFound(t *testing.T) {
	db := &MockDB{}

	j, err := db.FindOne(NewID())
	assert.True(t, errors.Is(err, ErrJobNotFound))
	assert.Nil(t, j)

	j, err = db.FindOne("not-an-id")
	assert.True(t, errors.Is(err, ErrInvalidID))
	assert.Nil(t, j)
}

func TestMockDBUpdate(t *testing.T) {
	db := &MockDB{}
	id, _ := db.InsertOne(GetMockFields())

	n, err := db.UpdateOne(id, Fields{Title: "A", Company: "B", Location: "C"})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	j, err := db.FindOne(id)
	require.NoError(t, err)
	assert.Equal(t, Fields{Title: "A", Company: "B", Location: "C"}, j.Fields)

	n, err = db.UpdateOne(NewID(), GetMockFields())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = db.UpdateOne("bad", GetMockFields())
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestMockDBDelete(t *testing.T) {
	db := &MockDB{}
	id, _ := db.InsertOne(GetMockFields())
	other, _ := db.InsertOne(GetMockFields())

	n, err := db.DeleteOne(id)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = db.DeleteOne(id)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	jobs, _ := db.FindAll()
	require.Len(t, jobs, 1)
	assert.Equal(t, other, jobs[0].ID)
}

func TestMockDBUppercaseID(t *testing.T) {
	db := &MockDB{}
	id, err := db.InsertOne(GetMockFields())
	require.NoError(t, err)
	upper := strings.ToUpper(id)

	j, err := db.FindOne(upper)
	require.NoError(t, err)
	assert.Equal(t, id, j.ID)

	n, err := db.UpdateOne(upper, Fields{Title: "A", Company: "B", Location: "C"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	j, err = db.FindOne(id)
	require.NoError(t, err)
	assert.Equal(t, id, j.ID)
	assert.Equal(t, "A", j.Title)

	n, err = db.DeleteOne(upper)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, _ := db.Count()
	assert.Equal(t, 0, count)
}

func TestMockDBConcurrentInserts(t *testing.T) {
	db := &MockDB{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db.InsertOne(GetMockFields()) //nolint:errcheck
		}()
	}
	wg.Wait()

	n, _ := db.Count()
	assert.Equal(t, 20, n)
}
