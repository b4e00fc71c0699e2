package models

// QueryRequest is the JSON body sent to the query endpoint
type QueryRequest struct {
	Query string `json:"query"`
}
