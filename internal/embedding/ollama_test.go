package embedding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req["model"])
		assert.Equal(t, "flood in gujarat", req["prompt"])

		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(srv.URL, "all-minilm")
	require.NoError(t, err)

	vec, err := client.Embed(t.Context(), "flood in gujarat")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOllamaClient_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{1, 0}, {0, 1}},
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(srv.URL, "all-minilm")
	require.NoError(t, err)

	vecs, err := client.EmbedBatch(t.Context(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
}

func TestOllamaClient_EmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{1, 0}},
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(srv.URL, "all-minilm")
	require.NoError(t, err)

	_, err = client.EmbedBatch(t.Context(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestOllamaClient_EmbedBatch_Empty(t *testing.T) {
	client, err := NewOllamaClient("http://localhost:11434", "all-minilm")
	require.NoError(t, err)

	vecs, err := client.EmbedBatch(t.Context(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestNewOllamaClient_RequiresModel(t *testing.T) {
	_, err := NewOllamaClient("http://localhost:11434", "")
	assert.Error(t, err)
}
