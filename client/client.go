package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ajvb/jobboard/api"
	"github.com/ajvb/jobboard/job"
)

const (
	methodGet    = "GET"
	methodPost   = "POST"
	methodPatch  = "PATCH"
	methodDelete = "DELETE"
)

var (
	ErrJobNotFound      = errors.New("Job not found")
	ErrJobCreationError = errors.New("Error creating job")
	ErrBadRequest       = errors.New("Request rejected by the server")

	ErrGenericError = errors.New("An error occurred performing your request")
)

// Client is the base struct for this package.
type Client struct {
	apiEndpoint string
	httpClient  *http.Client
}

// New is used to create a new Client based off of the apiEndpoint
// Example:
// 		c := New("http://127.0.0.1:8000")
func New(apiEndpoint string) *Client {
	return &Client{
		apiEndpoint: strings.TrimSuffix(apiEndpoint, "/"),
		httpClient:  http.DefaultClient,
	}
}

func (c *Client) encode(value interface{}) (io.Reader, error) {
	if value == nil {
		return nil, nil
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(value); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Client) decode(body io.Reader, target interface{}) error {
	if target == nil {
		return nil
	}
	return json.NewDecoder(body).Decode(target)
}

func (c *Client) url(path string, parts ...string) string {
	return c.apiEndpoint + path + strings.Join(parts, "/")
}

// do performs the request and decodes a 200 body into target. Any other
// status is turned into one of the package errors.
func (c *Client) do(method, url string, payload, target interface{}) (statusCode int, err error) {
	body, err := c.encode(payload)
	if err != nil {
		return
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.StatusCode, c.decode(resp.Body, target)
	case http.StatusNotFound:
		return resp.StatusCode, ErrJobNotFound
	case http.StatusBadRequest:
		return resp.StatusCode, c.serverError(ErrBadRequest, resp.Body)
	default:
		return resp.StatusCode, c.serverError(ErrGenericError, resp.Body)
	}
}

func (c *Client) serverError(kind error, body io.Reader) error {
	e := &api.ErrorResponse{}
	if err := c.decode(body, e); err != nil || e.Error == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, e.Error)
}

// InsertJobs stores every job in one request and returns their ids in order.
// Example:
// 		c := New("http://127.0.0.1:8000")
//		ids, err := c.InsertJobs([]job.Fields{{
//			Title:    "Senior Python Developer",
//			Company:  "Payne, Roberts and Davis",
//			Location: "Stewartbury, AA",
//		}})
func (c *Client) InsertJobs(fs []job.Fields) ([]string, error) {
	resp := &api.InsertJobsResponse{}
	if _, err := c.do(methodPost, c.url(api.InsertJobsPath), fs, resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJobCreationError, err)
	}
	return resp.InsertedIDs, nil
}

// InsertJob stores a single job and returns its id.
func (c *Client) InsertJob(f job.Fields) (string, error) {
	resp := &api.InsertJobResponse{}
	if _, err := c.do(methodPost, c.url(api.InsertJobPath), f, resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrJobCreationError, err)
	}
	return resp.InsertedID, nil
}

// GetJobs returns every stored job.
// Example:
// 		c := New("http://127.0.0.1:8000")
//		jobs, err := c.GetJobs()
func (c *Client) GetJobs() ([]*job.Job, error) {
	jobs := []*job.Job{}
	_, err := c.do(methodGet, c.url(api.GetJobsPath), nil, &jobs)
	return jobs, err
}

// GetJob is used to retrieve a Job by its ID.
// Example:
// 		c := New("http://127.0.0.1:8000")
//		id := "66eb21b2adf5db590529e5fe"
//		job, err := c.GetJob(id)
func (c *Client) GetJob(id string) (*job.Job, error) {
	j := &job.Job{}
	if _, err := c.do(methodGet, c.url(api.GetJobPath, id), nil, j); err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateJob replaces the fields of the Job with the given ID.
func (c *Client) UpdateJob(id string, f job.Fields) (bool, error) {
	if _, err := c.do(methodPatch, c.url(api.UpdateJobPath, id), f, nil); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteJob is used to delete a Job by its ID.
// Example:
// 		c := New("http://127.0.0.1:8000")
//		id := "66eb21b2adf5db590529e5fe"
//		ok, err := c.DeleteJob(id)
func (c *Client) DeleteJob(id string) (bool, error) {
	if _, err := c.do(methodDelete, c.url(api.DeleteJobPath, id), nil, nil); err != nil {
		return false, err
	}
	return true, nil
}
