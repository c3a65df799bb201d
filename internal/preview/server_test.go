package preview

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meghivo.htm"), []byte(`<body><a href="2_napirendi_pont/hatarozat.txt">hatarozat.txt</a></body>`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2_napirendi_pont"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2_napirendi_pont", "hatarozat.txt"), []byte("elfogadva\n"), 0o644))

	srv := httptest.NewServer(NewServer(dir, "_zart", slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)
	return srv, dir
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestIndexRedirectsToDocument(t *testing.T) {
	srv, _ := newTestServer(t)
	client := &http.Client{CheckRedirect: noRedirect}

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/meghivo.htm", resp.Header.Get("Location"))
}

func TestServesAttachmentLinks(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/2_napirendi_pont/hatarozat.txt")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "elfogadva\n", string(body))
}

func TestInventoryPages(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/inventory")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "<h2>2_napirendi_pont</h2>"), string(body))

	resp, err = http.Get(srv.URL + "/api/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()

	var inv struct {
		Topics []struct {
			Name  string
			Files []struct{ Name string }
		}
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inv))
	require.Len(t, inv.Topics, 1)
	assert.Equal(t, "hatarozat.txt", inv.Topics[0].Files[0].Name)
}

func TestReadOnly(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/meghivo.htm", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestIndexWithoutDocument(t *testing.T) {
	srv := httptest.NewServer(NewServer(t.TempDir(), "_zart", slog.New(slog.DiscardHandler)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
