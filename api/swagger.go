//Package api Job Board API
//
//Python jobs scraped from the fake-jobs board.
//
//
//    Schemes: http, https
//    Host: API_HOST
//    BasePath: /
//    Version: 1.0
//
//    Consumes:
//     - application/json
//
//    Produces:
//     - application/json
//
//swagger:meta
package api

//
// swagger:operation POST /insert_jobs jobs insertJobs
//
// Inserting multiple Jobs
//
// ---
// consumes:
//   - application/json
// produces:
//   - application/json
// parameters:
// - name: body
//   in: body
//   required: true
//   schema:
//     type: array
//     minItems: 1
//     items:
//       $ref: "#/definitions/Job"
// responses:
//   200:
//     description: Jobs inserted successfully!
//     schema:
//       type: object
//       properties:
//         message:
//           type: string
//         inserted_ids:
//           type: array
//           items:
//             type: string
//   400:
//     description: Error inserting jobs!
//   500:
//     description: Error inserting jobs!
//
//

//
// swagger:operation POST /insert_job jobs insertJob
//
// Inserting one Job
//
// ---
// consumes:
//   - application/json
// produces:
//   - application/json
// parameters:
// - name: body
//   in: body
//   required: true
//   schema:
//     $ref: "#/definitions/Job"
// responses:
//   200:
//     description: Job posted successfully!
//     schema:
//       type: object
//       properties:
//         message:
//           type: string
//         inserted_id:
//           type: string
//   400:
//     description: Data can't be inserted
//   500:
//     description: Data can't be inserted
//
//

//
// swagger:operation GET /get_jobs jobs getAllJobs
//
// Getting a list of all Jobs
//
// ---
// produces:
//   - application/json
// responses:
//   200:
//     description: OK
//     schema:
//       type: array
//       items:
//         $ref: "#/definitions/JobResponse"
//   500:
//     description: Get All jobs failed
//
//

//
// swagger:operation GET /get_job/{job_id} jobs getJob
//
// Getting a Job
//
// ---
// produces:
//   - application/json
// parameters:
// - name: job_id
//   in: path
//   required: true
//   type: string
// responses:
//   200:
//     description: OK
//     schema:
//       $ref: "#/definitions/JobResponse"
//   400:
//     description: Get Job failed
//   404:
//     description: Job not found
//   500:
//     description: Get Job failed
//
//

//
// swagger:operation PATCH /update_job/{job_id} jobs updateJob
//
// Updating a Job
//
// ---
// consumes:
//   - application/json
// produces:
//   - application/json
// parameters:
// - name: job_id
//   in: path
//   required: true
//   type: string
// - name: body
//   in: body
//   required: true
//   schema:
//     $ref: "#/definitions/Job"
// responses:
//   200:
//     description: Job updated successfully
//   400:
//     description: Can't update job
//   404:
//     description: Job not found
//   500:
//     description: Can't update job
//
//

//
// swagger:operation DELETE /delete_job/{job_id} jobs deleteJob
//
// Deleting a Job
//
// ---
// produces:
//   - application/json
// parameters:
// - name: job_id
//   in: path
//   required: true
//   type: string
// responses:
//   200:
//     description: Job deleted successfully
//     schema:
//       $ref: "#/definitions/DeleteResponse"
//   400:
//     description: Job can't be deleted
//   404:
//     description: Job not found
//     schema:
//       $ref: "#/definitions/DeleteResponse"
//   500:
//     description: Job can't be deleted
//
//

// Job is the body accepted by the insert and update routes.
//
// swagger:model Job
type swaggerJob struct {
	// example: This is a Python dev job
	// required: true
	Title string `json:"title"`
	// example: The API python devs inc
	// required: true
	Company string `json:"company"`
	// example: Ottawa
	// required: true
	Location string `json:"location"`
}

// JobResponse is a stored job.
//
// swagger:model JobResponse
type swaggerJobResponse struct {
	// example: 66eb21b2adf5db590529e5fe
	ID string `json:"_id"`
	swaggerJob
}

// swagger:model DeleteResponse
type swaggerDeleteResponse DeleteJobResponse
