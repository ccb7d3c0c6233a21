package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dhima/dbutils/internal/api/response"
	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/internal/models"
	"github.com/dhima/dbutils/internal/statements"
	"github.com/dhima/dbutils/pkg/dbutils"
	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// StatementService is what the handler needs from statements.Service.
type StatementService interface {
	Query(ctx context.Context, kind models.QueryKind, req models.StatementRequest) (*models.QueryResponse, error)
	Mutate(ctx context.Context, kind models.MutationKind, requestID string, req models.StatementRequest) (*models.MutationResponse, error)
}

const statementSchema = `{
	"type": "object",
	"required": ["sql"],
	"additionalProperties": false,
	"properties": {
		"sql": {"type": "string", "minLength": 1},
		"args": {
			"type": "array",
			"items": {"type": ["string", "number", "boolean", "null"]}
		},
		"n": {"type": "integer", "minimum": 1}
	}
}`

var statementSchemaLoader = gojsonschema.NewStringLoader(statementSchema)

// StatementHandler exposes the handle's six operations over HTTP.
type StatementHandler struct {
	service StatementService
	schema  *gojsonschema.Schema
	logger  logging.Logger
}

// NewStatementHandler creates a new statement handler.
func NewStatementHandler(service StatementService, logger logging.Logger) (*StatementHandler, error) {
	schema, err := gojsonschema.NewSchema(statementSchemaLoader)
	if err != nil {
		return nil, err
	}
	return &StatementHandler{
		service: service,
		schema:  schema,
		logger:  logger.With(zap.String("handler", "statements")),
	}, nil
}

// Query godoc
// @Summary Run a read statement
// @Description Runs a SELECT with positional bind parameters. kind=all returns every row, kind=n at most n rows, kind=one the first row or null.
// @Tags Statements
// @Accept json
// @Produce json
// @Param kind path string true "Query kind" Enums(all, one, n)
// @Param request body models.StatementRequest true "Statement"
// @Success 200 {object} response.SuccessResponse{data=models.QueryResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid request or rejected statement"
// @Failure 503 {object} response.ErrorResponse "Connection closed"
// @Router /query/{kind} [post]
func (h *StatementHandler) Query(c *gin.Context) {
	kind := models.QueryKind(c.Param("kind"))

	req, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.service.Query(c.Request.Context(), kind, req)
	if err != nil {
		h.writeError(c, "query", err)
		return
	}

	response.OK(c, resp)
}

// Exec godoc
// @Summary Run a write statement
// @Description Runs an INSERT, UPDATE or DELETE in its own transaction and commits it.
// @Tags Statements
// @Accept json
// @Produce json
// @Param kind path string true "Mutation kind" Enums(insert, update, delete)
// @Param request body models.StatementRequest true "Statement"
// @Success 200 {object} response.SuccessResponse{data=models.MutationResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid request or rejected statement"
// @Failure 403 {object} response.ErrorResponse "Read-only mode"
// @Failure 503 {object} response.ErrorResponse "Connection closed"
// @Router /exec/{kind} [post]
func (h *StatementHandler) Exec(c *gin.Context) {
	kind := models.MutationKind(c.Param("kind"))

	req, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.service.Mutate(c.Request.Context(), kind, response.GetRequestID(c), req)
	if err != nil {
		h.writeError(c, string(kind), err)
		return
	}

	h.logger.Info("statement committed",
		zap.String("operation", string(kind)),
		zap.Int64("rows_affected", resp.RowsAffected),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.OK(c, resp)
}

// bind validates the body against the statement schema and decodes it.
// Numbers are kept exact: integers bind as int64, everything else as float64.
func (h *StatementHandler) bind(c *gin.Context) (models.StatementRequest, bool) {
	var req models.StatementRequest

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid payload", err.Error())
		return req, false
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		response.BadRequest(c, "invalid payload", err.Error())
		return req, false
	}
	if !result.Valid() {
		violations := make([]response.ValidationError, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, response.ValidationError{
				Field:   e.Field(),
				Message: e.Description(),
			})
		}
		response.ValidationErrors(c, violations)
		return req, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(c, "invalid payload", err.Error())
		return req, false
	}
	for i, arg := range req.Args {
		if n, ok := arg.(json.Number); ok {
			req.Args[i] = numberArg(n)
		}
	}
	return req, true
}

func numberArg(n json.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func (h *StatementHandler) writeError(c *gin.Context, op string, err error) {
	var vErr statements.ValidationError
	var qErr *dbutils.QueryError

	switch {
	case errors.As(err, &vErr):
		response.BadRequest(c, "invalid statement", vErr.Error())
	case errors.Is(err, statements.ErrReadOnly):
		response.Forbidden(c, err.Error())
	case errors.Is(err, dbutils.ErrConnectionClosed):
		response.ServiceUnavailable(c, "database connection closed", nil)
	case errors.As(err, &qErr):
		details := gin.H{"message": qErr.Err.Error()}
		if code, ok := qErr.MySQLNumber(); ok {
			details["mysql_error"] = code
		}
		h.logger.Warn("statement rejected",
			zap.Error(err),
			zap.String("operation", op),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "statement failed", details)
	default:
		h.logger.Error("statement failed",
			zap.Error(err),
			zap.String("operation", op),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
