package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/pprof"
	"runtime"

	"github.com/ajvb/jobboard/api/middleware"
	"github.com/ajvb/jobboard/job"
	"github.com/ajvb/jobboard/metrics"

	"github.com/gorilla/mux"
	"github.com/phyber/negroni-gzip/gzip"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

const (
	InsertJobsPath = "/insert_jobs"
	InsertJobPath  = "/insert_job"
	GetJobsPath    = "/get_jobs"
	GetJobPath     = "/get_job/"
	UpdateJobPath  = "/update_job/"
	DeleteJobPath  = "/delete_job/"

	contentType     = "Content-Type"
	jsonContentType = "application/json;charset=UTF-8"

	maxBodyBytes = 1048576
)

// Version is reported through the start_time_seconds metric.
var Version = "0.1.0"

type InsertJobsResponse struct {
	Message     string   `json:"message"`
	InsertedIDs []string `json:"inserted_ids"`
}

type InsertJobResponse struct {
	Message    string `json:"message"`
	InsertedID string `json:"inserted_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DeleteJobResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse carries the route's failure message and the underlying error text.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// statusFor maps the job error kinds onto HTTP statuses.
func statusFor(err error) int {
	var verr *job.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, job.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, job.ErrJobNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set(contentType, jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("Error occurred when marshalling response: %s", err)
	}
}

func writeError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", message, err)
	} else {
		log.Debugf("%s: %s", message, err)
	}
	writeJSON(w, status, &ErrorResponse{Message: message, Error: err.Error()})
}

// decodeBody strictly decodes at most 1MB of r.Body into v. Any decoding
// problem is reported as a *job.ValidationError.
func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return job.NewValidationError("malformed body: %s", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return job.NewValidationError("malformed body: unexpected data after JSON value")
	}
	return nil
}

// HandleInsertJobs takes a JSON array of jobs and stores all of them.
func HandleInsertJobs(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const failed = "Error inserting jobs!"

		var fs []job.Fields
		if err := decodeBody(r, &fs); err != nil {
			writeError(w, err, failed)
			return
		}
		if err := job.ValidateAll(fs); err != nil {
			writeError(w, err, failed)
			return
		}

		ids, err := db.InsertMany(fs)
		if err != nil {
			writeError(w, err, failed)
			return
		}

		writeJSON(w, http.StatusOK, &InsertJobsResponse{
			Message:     "Jobs inserted successfully!",
			InsertedIDs: ids,
		})
	}
}

// HandleInsertJob takes a single JSON job object and stores it.
func HandleInsertJob(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const failed = "Data can't be inserted"

		var f job.Fields
		if err := decodeBody(r, &f); err != nil {
			writeError(w, err, failed)
			return
		}
		if err := f.Validate(); err != nil {
			writeError(w, err, failed)
			return
		}

		id, err := db.InsertOne(f)
		if err != nil {
			writeError(w, err, failed)
			return
		}

		writeJSON(w, http.StatusOK, &InsertJobResponse{
			Message:    "Job posted successfully!",
			InsertedID: id,
		})
	}
}

// HandleGetJobs responds with an array of every stored job.
func HandleGetJobs(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := db.FindAll()
		if err != nil {
			writeError(w, err, "Get All jobs failed")
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func HandleGetJob(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := db.FindOne(mux.Vars(r)["job_id"])
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, err, "Job not found")
			return
		}
		if err != nil {
			writeError(w, err, "Get Job failed")
			return
		}
		writeJSON(w, http.StatusOK, j)
	}
}

// HandleUpdateJob replaces title, company and location of a stored job.
// Matching a job is success even when nothing changes.
func HandleUpdateJob(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		const failed = "Can't update job"

		id := mux.Vars(r)["job_id"]
		if _, err := job.ParseID(id); err != nil {
			writeError(w, err, failed)
			return
		}

		var f job.Fields
		if err := decodeBody(r, &f); err != nil {
			writeError(w, err, failed)
			return
		}
		if err := f.Validate(); err != nil {
			writeError(w, err, failed)
			return
		}

		n, err := db.UpdateOne(id, f)
		if err != nil {
			writeError(w, err, failed)
			return
		}
		if n == 0 {
			writeJSON(w, http.StatusNotFound, &MessageResponse{Message: "Job not found"})
			return
		}

		writeJSON(w, http.StatusOK, &MessageResponse{Message: "Job updated successfully"})
	}
}

func HandleDeleteJob(db job.JobDB) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["job_id"]

		n, err := db.DeleteOne(id)
		if err != nil {
			writeError(w, err, "Job can't be deleted")
			return
		}
		if n == 0 {
			writeJSON(w, http.StatusNotFound, &DeleteJobResponse{Message: "Job not found", ID: id})
			return
		}

		writeJSON(w, http.StatusOK, &DeleteJobResponse{Message: "Job deleted successfully", ID: id})
	}
}

// SetupApiRoutes is used within main to initialize all of the routes
func SetupApiRoutes(r *mux.Router, db job.JobDB) {
	r.HandleFunc(InsertJobsPath, HandleInsertJobs(db)).Methods("POST")
	r.HandleFunc(InsertJobPath, HandleInsertJob(db)).Methods("POST")
	r.HandleFunc(GetJobsPath, HandleGetJobs(db)).Methods("GET")
	r.HandleFunc(GetJobPath+"{job_id}", HandleGetJob(db)).Methods("GET")
	r.HandleFunc(UpdateJobPath+"{job_id}", HandleUpdateJob(db)).Methods("PATCH")
	r.HandleFunc(DeleteJobPath+"{job_id}", HandleDeleteJob(db)).Methods("DELETE")
}

// NewHandler wires the job routes, /metrics and optionally pprof behind the
// negroni middleware stack.
func NewHandler(db job.JobDB, profile bool) http.Handler {
	r := mux.NewRouter()
	m := metrics.NewMetrics(Version, db)
	r.Use(m.Middleware)
	SetupApiRoutes(r, db)
	r.Handle("/metrics", m.Handler())

	if profile {
		runtime.SetMutexProfileFraction(5)
		// Register pprof handlers
		r.HandleFunc("/debug/pprof/", pprof.Index)
		r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		r.HandleFunc("/debug/pprof/profile", pprof.Profile)
		r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/debug/pprof/trace", pprof.Trace)
		r.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		r.Handle("/debug/pprof/heap", pprof.Handler("heap"))
		r.Handle("/debug/pprof/mutex", pprof.Handler("mutex"))
		r.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
		r.Handle("/debug/pprof/block", pprof.Handler("block"))
	}

	n := negroni.New(negroni.NewRecovery(), middleware.RequestID{}, middleware.NewLogger(), gzip.Gzip(gzip.DefaultCompression))
	n.UseHandler(r)
	return n
}

func MakeServer(listenAddr string, db job.JobDB, profile bool) *http.Server {
	return &http.Server{
		Addr:    listenAddr,
		Handler: NewHandler(db, profile),
	}
}
