package sheets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/listahan/internal/config"
	"github.com/amaumene/listahan/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := NewClient(&config.Config{APIURL: srv.URL + "/exec", UserAgent: "listahan-test"}, logger)
	require.NoError(t, err)
	client.now = func() time.Time { return time.UnixMilli(1234) }
	return client
}

func TestGetAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/exec", r.URL.Path)
		assert.Equal(t, "getAll", r.URL.Query().Get("action"))
		assert.Equal(t, "alice", r.URL.Query().Get("userId"))
		assert.Equal(t, "1234", r.URL.Query().Get("_"))
		assert.Equal(t, "listahan-test", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		io.WriteString(w, `{"success":true,"data":[{"id":"1","type":"anime","title":"A"},"junk",{"id":2,"type":"manga"}]}`)
	})

	records, err := client.GetAll(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["title"])
	assert.Equal(t, float64(2), records[1]["id"])
}

func TestGetAllRemoteFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"error":"User not found"}`)
	})

	_, err := client.GetAll(context.Background(), "alice")
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "User not found", err.Error())
}

func TestGetAllMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>Sign in</html>`)
	})

	_, err := client.GetAll(context.Background(), "alice")
	require.Error(t, err)
	var remoteErr *RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}

func TestGetAllNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetAll(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAddPostsForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "add", r.PostForm.Get("action"))
		assert.Equal(t, "alice", r.PostForm.Get("userId"))
		assert.Equal(t, "Frieren", r.PostForm.Get("title"))
		assert.Equal(t, "anime", r.PostForm.Get("type"))
		assert.Equal(t, "28", r.PostForm.Get("episodes"))
		assert.False(t, r.PostForm.Has("id"))

		io.WriteString(w, `{"success":true,"id":42}`)
	})

	id, err := client.Add(context.Background(), "alice", models.Record{
		Type:     models.MediaTypeAnime,
		Title:    "Frieren",
		Status:   models.StatusComplete,
		Progress: 28,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestAddIgnoresObjectData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"id":"7","data":{"row":12}}`)
	})

	id, err := client.Add(context.Background(), "alice", models.Record{Type: models.MediaTypeManga, Title: "Vagabond"})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestGetAllRejectsNonListData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"id":"1"}}`)
	})

	_, err := client.GetAll(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode entries")
}

func TestGetAllNullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":null}`)
	})

	records, err := client.GetAll(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateAndDeleteSendID(t *testing.T) {
	var actions []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		actions = append(actions, r.PostForm.Get("action"))
		assert.Equal(t, "7", r.PostForm.Get("id"))
		io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, client.Update(context.Background(), "alice", "7", models.Record{Title: "X"}))
	require.NoError(t, client.Delete(context.Background(), "alice", "7"))
	assert.Equal(t, []string{"update", "delete"}, actions)
}

func TestUpdateRemoteFailureVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"error":"not found"}`)
	})

	err := client.Update(context.Background(), "alice", "42", models.Record{Title: "New"})
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())
}

func TestRemoteErrorWithoutMessage(t *testing.T) {
	err := &RemoteError{Action: "delete"}
	assert.Equal(t, "Unknown error", err.Error())
}

func TestPing(t *testing.T) {
	online := true
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.URL.Query().Get("userId"))
		if online {
			io.WriteString(w, `{"success":true,"data":[]}`)
			return
		}
		io.WriteString(w, `{"success":false}`)
	})

	assert.NoError(t, client.Ping(context.Background()))
	online = false
	assert.Error(t, client.Ping(context.Background()))
}

func TestAuthActions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		switch r.PostForm.Get("action") {
		case "register", "login":
			assert.Equal(t, "secret1", r.PostForm.Get("password"))
			io.WriteString(w, `{"success":true}`)
		case "changePassword":
			assert.Equal(t, "secret1", r.PostForm.Get("currentPassword"))
			assert.Equal(t, "secret2", r.PostForm.Get("newPassword"))
			io.WriteString(w, `{"success":false,"error":"Current password is incorrect"}`)
		default:
			t.Errorf("unexpected action %q", r.PostForm.Get("action"))
		}
	})

	ctx := context.Background()
	require.NoError(t, client.Register(ctx, "alice", "secret1"))
	require.NoError(t, client.Login(ctx, "alice", "secret1"))
	err := client.ChangePassword(ctx, "alice", "secret1", "secret2")
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", err.Error())
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(&config.Config{}, logrus.New())
	require.Error(t, err)
}
