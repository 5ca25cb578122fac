package job

// JobDB is the persistence gateway for jobs. Implementations are shared by
// every request and must be safe for concurrent use.
type JobDB interface {
	InsertOne(f Fields) (string, error)
	InsertMany(fs []Fields) ([]string, error)
	FindAll() ([]*Job, error)
	// FindOne returns ErrJobNotFound when no job has the given id.
	FindOne(id string) (*Job, error)
	// UpdateOne replaces the fields of a job, returning how many jobs
	// matched (0 or 1).
	UpdateOne(id string, f Fields) (int, error)
	// DeleteOne returns how many jobs were deleted (0 or 1).
	DeleteOne(id string) (int, error)
	Count() (int, error)
	Close() error
}
