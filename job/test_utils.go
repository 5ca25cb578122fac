package job

import (
	"sync"
)

// MockDB is an in-memory JobDB. The zero value is ready to use.
type MockDB struct {
	lock  sync.RWMutex
	jobs  map[string]Fields
	order []string
}

func (m *MockDB) InsertOne(f Fields) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.insert(f), nil
}

func (m *MockDB) InsertMany(fs []Fields) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		ids = append(ids, m.insert(f))
	}
	return ids, nil
}

func (m *MockDB) insert(f Fields) string {
	if m.jobs == nil {
		m.jobs = map[string]Fields{}
	}
	id := NewID()
	m.jobs[id] = f
	m.order = append(m.order, id)
	return id
}

func (m *MockDB) FindAll() ([]*Job, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	jobs := make([]*Job, 0, len(m.order))
	for _, id := range m.order {
		jobs = append(jobs, New(id, m.jobs[id]))
	}
	return jobs, nil
}

func (m *MockDB) FindOne(id string) (*Job, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return nil, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	f, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return New(id, f), nil
}

func (m *MockDB) UpdateOne(id string, f Fields) (int, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return 0, err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return 0, nil
	}
	m.jobs[id] = f
	return 1, nil
}

func (m *MockDB) DeleteOne(id string) (int, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return 0, err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return 0, nil
	}
	delete(m.jobs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *MockDB) Count() (int, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.jobs), nil
}

func (m *MockDB) Close() error {
	return nil
}

// GetMockFields returns a valid set of job fields.
func GetMockFields() Fields {
	return Fields{
		Title:    "Senior Python Developer",
		Company:  "Payne, Roberts and Davis",
		Location: "Stewartbury, AA",
	}
}
