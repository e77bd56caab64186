// Package docs FindHope API.
//
// Documentation of the FindHope missing persons API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package docs

import (
	"github.com/findhope/findhope-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/case/{case_id} cases caseByID
// Gets a single case by ID.
// responses:
//   200: caseByIDResponse

// Shows a single case by the given {ID}
// swagger:response caseByIDResponse
type caseByIDResponseWrapper struct {
	// in:body
	Body models.Case
}

// swagger:route GET /api/v1/cases cases caseList
// Lists cases, filterable by case_type, status and a search term.
// responses:
//   200: caseListResponse

// Shows the filtered case list
// swagger:response caseListResponse
type caseListResponseWrapper struct {
	// in:body
	Body []models.Case
}
