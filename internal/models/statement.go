package models

import "github.com/dhima/dbutils/pkg/dbutils"

// QueryKind selects how many rows a read statement returns.
type QueryKind string

const (
	QueryKindAll QueryKind = "all"
	QueryKindOne QueryKind = "one"
	QueryKindN   QueryKind = "n"
)

// MutationKind names the mutation a write statement performs.
type MutationKind string

const (
	MutationKindInsert MutationKind = "insert"
	MutationKindUpdate MutationKind = "update"
	MutationKindDelete MutationKind = "delete"
)

// StatementRequest is a SQL statement plus its positional bind parameters.
type StatementRequest struct {
	SQL  string        `json:"sql" example:"SELECT * FROM t_user WHERE username = ?"`
	Args []interface{} `json:"args,omitempty"`
	// N caps the rows returned by QueryKindN.
	N int `json:"n,omitempty" example:"3"`
} // @name StatementRequest

// QueryResponse carries the rows of a read statement. Row is set only for
// QueryKindOne and is null when nothing matched.
type QueryResponse struct {
	Kind  QueryKind         `json:"kind" example:"all"`
	Rows  dbutils.ResultSet `json:"rows,omitempty" swaggertype:"array,object"`
	Row   *dbutils.Row      `json:"row,omitempty" swaggertype:"object"`
	Count int               `json:"count" example:"1"`
} // @name QueryResponse

// MutationResponse reports the outcome of a committed write statement.
type MutationResponse struct {
	Operation    MutationKind `json:"operation" example:"insert"`
	RowsAffected int64        `json:"rows_affected" example:"1"`
} // @name MutationResponse
