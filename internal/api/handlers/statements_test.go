package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhima/dbutils/internal/api/response"
	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/internal/statements"
	"github.com/dhima/dbutils/internal/testutil/fakes"
	"github.com/dhima/dbutils/pkg/dbutils"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatementRouter(t *testing.T, h *fakes.FakeHandle, opts ...statements.Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := statements.NewService(h, nil, logging.NewNoOpLogger(), opts...)
	handler, err := NewStatementHandler(svc, logging.NewNoOpLogger())
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/v1/query/:kind", handler.Query)
	r.POST("/api/v1/exec/:kind", handler.Exec)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestQuery_WhenAll_ThenReturnsRowsInColumnOrder(t *testing.T) {
	// Arrange
	h := &fakes.FakeHandle{Rows: dbutils.ResultSet{
		dbutils.NewRow([]string{"username", "password"}, []dbutils.Value{dbutils.TextValue("admin"), dbutils.TextValue("pw1")}),
	}}
	r := newStatementRouter(t, h)

	// Act
	w := post(r, "/api/v1/query/all", `{"sql":"SELECT * FROM t_user WHERE id > ?","args":[7, 1.5, "x", true, null]}`)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"kind":"all","rows":[{"username":"admin","password":"pw1"}],"count":1}}`, w.Body.String())
	assert.Contains(t, w.Body.String(), `{"username":"admin","password":"pw1"}`)
	assert.Equal(t, []any{int64(7), 1.5, "x", true, nil}, h.LastCall().Args)
}

func TestQuery_WhenOneMatchesNothing_ThenReturnsNullRow(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{})

	w := post(r, "/api/v1/query/one", `{"sql":"SELECT * FROM t_user WHERE username = ?","args":["nobody"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"kind":"one","count":0}}`, w.Body.String())
}

func TestQuery_WhenN_ThenPassesLimit(t *testing.T) {
	h := &fakes.FakeHandle{}
	r := newStatementRouter(t, h)

	w := post(r, "/api/v1/query/n", `{"sql":"SELECT * FROM t_user","n":3}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, h.LastCall().N)
}

func TestQuery_WhenBodyViolatesSchema_ThenReturns400WithFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing sql", `{"args":[]}`},
		{"empty sql", `{"sql":""}`},
		{"nested arg", `{"sql":"SELECT ?","args":[{"a":1}]}`},
		{"unknown field", `{"sql":"SELECT 1","limit":3}`},
		{"fractional n", `{"sql":"SELECT 1","n":1.5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &fakes.FakeHandle{}
			r := newStatementRouter(t, h)

			w := post(r, "/api/v1/query/all", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "validation failed", resp.Error)
			assert.Empty(t, h.Calls)
		})
	}
}

func TestQuery_WhenBodyIsNotJSON_ThenReturns400(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{})

	w := post(r, "/api/v1/query/all", `not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery_WhenUnknownKind_ThenReturns400(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{})

	w := post(r, "/api/v1/query/many", `{"sql":"SELECT 1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery_WhenDriverRejectsStatement_ThenReturns400WithMySQLCode(t *testing.T) {
	h := &fakes.FakeHandle{Err: &dbutils.QueryError{
		Op:  "select_all",
		Err: &mysql.MySQLError{Number: 1146, Message: "Table 'spring.nope' doesn't exist"},
	}}
	r := newStatementRouter(t, h)

	w := post(r, "/api/v1/query/all", `{"sql":"SELECT * FROM nope"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "statement failed", resp.Error)
	assert.Equal(t, float64(1146), resp.Details["mysql_error"])
}

func TestQuery_WhenConnectionClosed_ThenReturns503(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{Err: dbutils.ErrConnectionClosed})

	w := post(r, "/api/v1/query/all", `{"sql":"SELECT 1"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestQuery_WhenUnexpectedError_ThenReturns500(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{Err: errors.New("boom")})

	w := post(r, "/api/v1/query/all", `{"sql":"SELECT 1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExec_WhenInsert_ThenReturnsRowsAffected(t *testing.T) {
	h := &fakes.FakeHandle{RowsAffected: 1}
	r := newStatementRouter(t, h)

	w := post(r, "/api/v1/exec/insert", `{"sql":"INSERT INTO t_user(username,password) VALUES(?,?)","args":["admin","pw1"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"operation":"insert","rows_affected":1}}`, w.Body.String())
	assert.Equal(t, "insert", h.LastCall().Op)
}

func TestExec_WhenReadOnly_ThenReturns403(t *testing.T) {
	h := &fakes.FakeHandle{}
	r := newStatementRouter(t, h, statements.WithReadOnly(true))

	w := post(r, "/api/v1/exec/delete", `{"sql":"DELETE FROM t_user"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.Calls)
}

func TestExec_WhenVerbDoesNotMatchKind_ThenReturns400(t *testing.T) {
	r := newStatementRouter(t, &fakes.FakeHandle{})

	w := post(r, "/api/v1/exec/update", `{"sql":"DELETE FROM t_user"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid statement", resp.Error)
}
