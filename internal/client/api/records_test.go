package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/generations/create/", r.URL.Path)

		var got GenerationRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "6734285177059253106", got.ProjectCategory)
		assert.Equal(t, []string{"https://cdn/a.png"}, got.ImageURLs)
		assert.Equal(t, int64(80), got.PointsUsed)

		got.ID = json.Number("9007199254740993001")
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	created, err := c.CreateRecord(context.Background(), &GenerationRecord{
		ProjectCategory: "6734285177059253106",
		Prompt:          "a red fox",
		Params:          map[string]any{"quality": "standard"},
		ImageURLs:       []string{"https://cdn/a.png"},
		SourceConfigID:  "1870234794176292672",
		PointsUsed:      80,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993001", created.ID.String())
}

func TestListRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/generations/category/42/", r.URL.Path)
		w.Write([]byte(`{"results":[{"id":1,"prompt":"first"},{"id":2,"prompt":"second"}],"category_info":{"id":42,"name":"playground"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	records, info, err := c.ListRecords(context.Background(), "42", nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Prompt)
	require.NotNil(t, info)
	assert.Equal(t, "playground", info.Name)
}

func TestDeleteRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/auth/generations/99/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.DeleteRecord(context.Background(), "99", nil))
}

func TestDeleteRecord_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.DeleteRecord(context.Background(), "99", nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
