package integrate

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ajvb/jobboard/api"
	"github.com/ajvb/jobboard/client"
	"github.com/ajvb/jobboard/job"
	"github.com/ajvb/jobboard/scraper"
	"github.com/ajvb/jobboard/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationTest(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "../scraper/testdata/fake-jobs.html")
	}))
	defer page.Close()

	jobDB := &job.MockDB{}
	addr := freeTCPAddr(t)

	jobboardApi := api.MakeServer(addr, jobDB, false)
	go jobboardApi.ListenAndServe()
	defer jobboardApi.Close()
	c := client.New("http://" + addr)
	waitForServer(t, addr)

	src := scraper.New(page.URL, scraper.WithTimeout(5*time.Second))

	res, err := seed.Run(src, jobDB)
	require.NoError(t, err)
	require.Len(t, res.InsertedIDs, 3)

	jobs, err := c.GetJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "Senior Python Developer", jobs[0].Title)

	// A second seed leaves the board alone.
	res, err = seed.Run(src, jobDB)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	id, err := c.InsertJob(job.Fields{Title: "Python Data Engineer", Company: "Acme", Location: "Ottawa"})
	require.NoError(t, err)

	_, err = c.UpdateJob(id, job.Fields{Title: "Lead Python Data Engineer", Company: "Acme", Location: "Ottawa"})
	require.NoError(t, err)

	j, err := c.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, "Lead Python Data Engineer", j.Title)

	for _, posted := range append(jobs, j) {
		ok, err := c.DeleteJob(posted.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	jobs, err = c.GetJobs()
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func waitForServer(t *testing.T, addr string) {
	for i := 0; i < 50; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server on %s never came up", addr)
}

func freeTCPAddr(t *testing.T) string {
	addr := &net.TCPAddr{
		IP: net.IPv4(127, 0, 0, 1),
	}

	lis, err := net.ListenTCP("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer lis.Close()

	return lis.Addr().String()
}
