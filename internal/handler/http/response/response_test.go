package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{validator.ValidationErrors{{Field: "email", Message: "email is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrInvalidCode, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{auth.ErrTooManyCodeAttempts, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{account.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{account.ErrSelfDelete, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("wrapped: %w", account.ErrAccountInUse), http.StatusConflict, "CONFLICT"},
		{request.ErrRequestAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{request.ErrRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{account.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestNoticeWriter_AddsNoticesAndNext(t *testing.T) {
	rec := httptest.NewRecorder()
	nw := NewNoticeWriter(rec)
	nw.SetNext(router.Accounts)

	HandleError(nw, account.ErrAccountNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, router.Accounts, resp.Next)
	require.Len(t, resp.Notices, 1)
	assert.Equal(t, router.SeverityDanger, resp.Notices[0].Severity)
}

func TestNotifier_WithoutNoticeWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	Notifier(rec).Notify("ignored", router.SeverityInfo)
	SetNext(rec, router.Home)

	Success(rec, nil)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Notices)
	assert.Empty(t, resp.Next)
}

func TestList_SetsTotal(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"a", "b"})

	resp := decode(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)
}
