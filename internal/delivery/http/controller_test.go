package http_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdian3456/envisiontech/internal/apptest"
	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, app *fiber.App, method string, route string, body string, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, route, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "request should succeed")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var value T
	require.NoError(t, sonic.Unmarshal(raw, &value), "body: %s", raw)
	return value
}

const registerBody = `{"username":"student1","email":"student1@example.com","password":"secret123","first_name":"Riley","last_name":"Park","grade":9,"courses":["Coding"]}`

func register(t *testing.T, app *fiber.App) model.TokenResponse {
	t.Helper()

	status, raw := doJSON(t, app, http.MethodPost, "/register", registerBody, "")
	require.Equal(t, http.StatusOK, status, "body: %s", raw)
	return decode[model.TokenResponse](t, raw)
}

func TestHealthCheck(t *testing.T) {
	app := apptest.NewApp(nil, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Workin", string(raw))
}

func TestRegisterConflictEnvelope(t *testing.T) {
	app := apptest.NewApp(nil, nil)

	t.Log("=== Test 1: first registration ===")
	token := register(t, app)
	require.NotEmpty(t, token.AccessToken)

	t.Log("=== Test 2: same username is a conflict ===")
	status, raw := doJSON(t, app, http.MethodPost, "/register", registerBody, "")
	require.Equal(t, http.StatusConflict, status)

	envelope := decode[model.ErrorResponse](t, raw)
	require.Equal(t, "This username already exists.", envelope.Error)
	require.Equal(t, constant.ERR_CONFLICT_ERROR, envelope.Code)

	t.Log("=== Test 3: malformed body ===")
	status, raw = doJSON(t, app, http.MethodPost, "/register", `{"username":`, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, constant.ERR_INVALID_REQUEST_BODY_MESSAGE, decode[model.ErrorResponse](t, raw).Error)
}

func TestCommentFlow(t *testing.T) {
	app := apptest.NewApp(nil, nil)
	token := register(t, app)

	t.Log("=== Test 1: posting needs a token ===")
	status, raw := doJSON(t, app, http.MethodPost, "/comment", `{"text":"hello"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, constant.ERR_UNAUTHORIZED_ERROR, decode[model.ErrorResponse](t, raw).Code)

	t.Log("=== Test 2: create returns a one element list ===")
	status, raw = doJSON(t, app, http.MethodPost, "/comment", `{"text":"hello","post_date":"2024-05-01T12:00:00Z"}`, token.AccessToken)
	require.Equal(t, http.StatusOK, status, "body: %s", raw)
	created := decode[[]model.Comment](t, raw)
	require.Len(t, created, 1)
	require.Nil(t, created[0].ParentId)
	require.Equal(t, "student1", created[0].User.Username)

	t.Log("=== Test 3: text of 200 characters is rejected ===")
	long := `{"text":"` + string(bytes.Repeat([]byte("x"), 200)) + `"}`
	status, raw = doJSON(t, app, http.MethodPost, "/comment", long, token.AccessToken)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Text too long", decode[model.ErrorResponse](t, raw).Error)

	t.Log("=== Test 4: anonymous feed has no likes for the viewer ===")
	status, raw = doJSON(t, app, http.MethodPost, "/like/1", "", token.AccessToken)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "OK", decode[model.MessageResponse](t, raw).Message)

	status, raw = doJSON(t, app, http.MethodGet, "/comment?offset=0", "", "")
	require.Equal(t, http.StatusOK, status)
	feed := decode[[]model.Comment](t, raw)
	require.Len(t, feed, 1)
	require.Equal(t, 1, feed[0].CountLikes)
	require.False(t, feed[0].UserLiked)

	status, raw = doJSON(t, app, http.MethodGet, "/comment", "", token.AccessToken)
	require.Equal(t, http.StatusOK, status)
	require.True(t, decode[[]model.Comment](t, raw)[0].UserLiked)

	t.Log("=== Test 5: replies and unknown ids ===")
	status, _ = doJSON(t, app, http.MethodPost, "/comment", `{"text":"a reply","parent_id":1}`, token.AccessToken)
	require.Equal(t, http.StatusOK, status)

	status, raw = doJSON(t, app, http.MethodGet, "/replies/1", "", token.AccessToken)
	require.Equal(t, http.StatusOK, status)
	replies := decode[[]model.Comment](t, raw)
	require.Len(t, replies, 1)
	require.Equal(t, int64(1), *replies[0].ParentId)

	status, raw = doJSON(t, app, http.MethodPost, "/like/77", "", token.AccessToken)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Comment not found", decode[model.ErrorResponse](t, raw).Error)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := apptest.NewApp(nil, nil)
	token := register(t, app)

	status, _ := doJSON(t, app, http.MethodPost, "/logout", "", token.AccessToken)
	require.Equal(t, http.StatusOK, status)

	status, raw := doJSON(t, app, http.MethodGet, "/replies/1", "", token.AccessToken)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Authorization token not found or expired", decode[model.ErrorResponse](t, raw).Error)
}

func TestContentRoutes(t *testing.T) {
	app := apptest.NewApp(nil, nil)

	status, raw := doJSON(t, app, http.MethodGet, "/about/avery-stone", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Avery Stone", decode[model.Person](t, raw).Name)

	status, raw = doJSON(t, app, http.MethodGet, "/about/nobody", "", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Could not find user.", decode[model.ErrorResponse](t, raw).Error)

	status, raw = doJSON(t, app, http.MethodGet, "/units", "", "")
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, decode[[]model.Unit](t, raw))

	status, raw = doJSON(t, app, http.MethodGet, "/no-such-route", "", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, constant.ERR_NOT_FOUND_ERROR, decode[model.ErrorResponse](t, raw).Code)
}
