package rtdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetchCatalog(t *testing.T) {
	body := `{
		"Phones": [{"name": "Phone A", "price": "4999"}],
		"Audio":  [{"name": "Earbuds"}]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	cat, err := NewRESTClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Phones", "Audio"}, cat.Categories())

	products, ok := cat.Products("Phones")
	require.True(t, ok)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone A", products[0].Name)
	assert.Equal(t, "4999", products[0].Price.String())
}

func TestRESTFetchCatalogTrimsSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products.json", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewRESTClient(srv.URL + "/").FetchCatalog(context.Background())
	require.NoError(t, err)
}

func TestRESTFetchCatalogErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewRESTClient(srv.URL).FetchCatalog(context.Background())
	assert.Error(t, err)

	_, err = NewRESTClient("").FetchCatalog(context.Background())
	assert.Error(t, err)
}
