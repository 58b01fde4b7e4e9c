package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestDoSendsJSONAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/widgets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		var in widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "gear", in.Name)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(widget{ID: "w-1", Name: in.Name})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", 0)

	var out widget
	err := c.Do(context.Background(), http.MethodPost, "/widgets", widget{Name: "gear"}, &out)

	require.NoError(t, err)
	assert.Equal(t, widget{ID: "w-1", Name: "gear"}, out)
}

func TestDoAttachesBearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	base := NewClient(server.URL, 0)
	authed := base.WithCredentials(Credentials{Token: "tok-123"})

	require.NoError(t, authed.Do(context.Background(), http.MethodGet, "/widgets", nil, nil))
	assert.Equal(t, "Bearer tok-123", auth)

	// The receiver is unchanged.
	require.NoError(t, base.Do(context.Background(), http.MethodGet, "/widgets", nil, nil))
	assert.Empty(t, auth)
}

func TestDoStatusErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"email already registered"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, 0).Do(context.Background(), http.MethodPost, "/widgets", widget{}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusConflict, se.Status)
	assert.Equal(t, "email already registered", se.Error())
}

func TestDoStatusErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, 0).Do(context.Background(), http.MethodGet, "/widgets", nil, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, DefaultErrorMessage, se.Message)
}

func TestDoStatusErrorWithMessageList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"message":["name must not be empty","email must be an email"],"error":"Bad Request"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, 0).Do(context.Background(), http.MethodPost, "/widgets", widget{}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "name must not be empty; email must be an email", se.Message)
}

func TestErrorMessageShapes(t *testing.T) {
	assert.Equal(t, "boom", errorMessage(json.RawMessage(`"boom"`)))
	assert.Equal(t, "a; b", errorMessage(json.RawMessage(`["a", "", "b"]`)))
	assert.Equal(t, "", errorMessage(json.RawMessage(`[]`)))
	assert.Equal(t, "", errorMessage(json.RawMessage(`{"nested":true}`)))
	assert.Equal(t, "", errorMessage(nil))
}

func TestDoEmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	out := widget{ID: "keep"}
	err := NewClient(server.URL, 0).Do(context.Background(), http.MethodPut, "/widgets/1", widget{}, &out)

	require.NoError(t, err)
	assert.Equal(t, "keep", out.ID)
}

func TestDoInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	var out widget
	err := NewClient(server.URL, 0).Do(context.Background(), http.MethodGet, "/widgets/1", nil, &out)

	assert.ErrorContains(t, err, "failed to decode response")
}

func TestDoNetworkError(t *testing.T) {
	err := NewClient("http://localhost:99999", 0).Do(context.Background(), http.MethodGet, "/widgets", nil, nil)

	assert.ErrorContains(t, err, "failed to call gateway")
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{name: "json success", status: http.StatusOK, body: `{"success":true}`, want: true},
		{name: "json failure", status: http.StatusOK, body: `{"success":false}`, want: false},
		{name: "text true", status: http.StatusOK, body: "true", want: true},
		{name: "text false", status: http.StatusOK, body: "false\n", want: false},
		{name: "empty 204", status: http.StatusNoContent, body: "", want: true},
		{name: "uninformative json", status: http.StatusOK, body: `{"deleted":"p-1"}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ok, err := NewClient(server.URL, 0).Delete(context.Background(), "/widgets/1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDeleteStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	ok, err := NewClient(server.URL, 0).Delete(context.Background(), "/widgets/1")

	assert.False(t, ok)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "not found", se.Message)
}
