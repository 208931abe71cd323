package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/models"
)

func TestEndpointList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"envelope", `{"success":true,"data":[{"_id":"a","title":"Keys"}]}`, 1, false},
		{"bare array", `[{"_id":"a"},{"_id":"b"}]`, 2, false},
		{"unsuccessful", `{"success":false,"message":"db down"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/yoqotilganlar", r.URL.Path)
				w.Write([]byte(tt.body))
			}, nil)

			items, err := c.Lost().List(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestEndpointGetNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/topilganlar/x1", r.URL.Path)
		w.Write([]byte(`{"success":false}`))
	}, nil)

	_, err := c.Found().Get(context.Background(), "x1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEndpointCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var item models.FoundItem
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&item))
		item.ID = "new1"
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": item})
	}, nil)

	created, err := c.Found().Create(context.Background(), models.FoundItem{Title: "Wallet"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("new1"), created.ID)
	assert.Equal(t, "Wallet", created.Title)
}
