package api

import (
	"net/http/httptest"

	"github.com/ajvb/jobboard/job"
)

func NewTestServer(db job.JobDB) *httptest.Server {
	return httptest.NewServer(NewHandler(db, false))
}
