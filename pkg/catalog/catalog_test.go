package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/relictum/pkg/catalog"
	"github.com/glorpus-work/relictum/pkg/errors"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
	mock_http "github.com/glorpus-work/relictum/pkg/http/mocks"
	"github.com/glorpus-work/relictum/pkg/model"
)

const listingHTML = `<!doctype html>
<html><body>
<div class="grid">
  <a class="card card-addon shadow" href="https://warperia.com/addon-wotlk/questie/">
    <img class="lazy" src="/placeholder.png" data-src="https://cdn.example/questie.png">
    <div class="addon-title fw-bold">Questie &#8211; <span>Quest Helper</span></div>
    <div class="text-muted addon-short">
      Shows quests &amp; objectives
      on the map.
    </div>
  </a>
  <a class="card-addon" href="/addon-wotlk/dbm/">
    <img src="/img/dbm.png">
    <div class="addon-short">Boss mods</div>
  </a>
  <a class="card-addon" href="">
    <div class="addon-title">No link</div>
  </a>
  <a class="card-addon">
    <div class="addon-title">Missing href</div>
  </a>
  <a class="other" href="/not-a-card/">Ignored</a>
</div>
</body></html>`

func TestParseListing(t *testing.T) {
	pageURL, _ := url.Parse("https://warperia.com/wotlk-addons/")
	game, err := model.LookupGame(model.GameWotLK)
	require.NoError(t, err)

	entries, err := catalog.ParseListing(strings.NewReader(listingHTML), game, pageURL)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.CatalogEntry{
		Title:       "Questie - Quest Helper",
		Description: "Shows quests & objectives on the map.",
		ImageURL:    "https://cdn.example/questie.png",
		DetailURL:   "https://warperia.com/addon-wotlk/questie/",
		GameVersion: "3.3.5",
	}, entries[0])

	assert.Equal(t, catalog.UnknownTitle, entries[1].Title)
	assert.Equal(t, "Boss mods", entries[1].Description)
	assert.Equal(t, "https://warperia.com/img/dbm.png", entries[1].ImageURL)
	assert.Equal(t, "https://warperia.com/addon-wotlk/dbm/", entries[1].DetailURL)
}

func TestGameFor(t *testing.T) {
	tests := []struct {
		category string
		version  string
		path     string
	}{
		{category: "wotlk", version: "3.3.5", path: "wotlk-addons/"},
		{category: "tbc", version: "2.4.3", path: "tbc-addons/"},
		{category: "classic", version: "1.12.1", path: "vanilla-addons/"},
		{category: "cataclysm", version: "3.3.5", path: "wotlk-addons/"},
		{category: "", version: "3.3.5", path: "wotlk-addons/"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			game := catalog.GameFor(tt.category)
			assert.Equal(t, tt.version, game.CatalogVersion)
			assert.Equal(t, tt.path, game.CatalogPath)
		})
	}
}

func TestBrowse(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/tbc-addons/" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	client, err := catalog.NewClient(server.URL, pkghttp.NewHTTPClient(time.Second, ""), 0)
	require.NoError(t, err)

	entries, err := client.Browse(context.Background(), "classic")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1.12.1", entries[0].GameVersion)

	entries, err = client.Browse(context.Background(), "tbc")
	require.NoError(t, err, "status failures yield an empty list")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = client.Browse(context.Background(), "unknown")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/vanilla-addons/", "/tbc-addons/", "/wotlk-addons/"}, requested)
}

func TestBrowse_Unreachable(t *testing.T) {
	client, err := catalog.NewClient("http://127.0.0.1:1/", pkghttp.NewHTTPClient(time.Second, ""), 0)
	require.NoError(t, err)

	entries, err := client.Browse(context.Background(), "wotlk")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := catalog.NewClient("not a url", nil, 0)
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
}

const detailHTML = `<html><body>
<a href="/readme.txt">Readme</a>
<a href="https://files.example/Questie-vanilla-1.12.zip">Classic</a>
<a href="https://files.example/Questie-TBC.zip">TBC</a>
<a href="/dl/Questie-WotLK.ZIP">WotLK</a>
<a href="https://files.example/Questie-wotlk-old.zip">Old</a>
</body></html>`

func TestParseDownloadURL(t *testing.T) {
	pageURL, _ := url.Parse("https://warperia.com/addon-wotlk/questie/")

	tests := []struct {
		category string
		want     string
	}{
		{category: "wotlk", want: "https://warperia.com/dl/Questie-WotLK.ZIP"},
		{category: "tbc", want: "https://files.example/Questie-TBC.zip"},
		{category: "classic", want: "https://files.example/Questie-vanilla-1.12.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, err := catalog.ParseDownloadURL(strings.NewReader(detailHTML), catalog.GameFor(tt.category), pageURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDownloadURL_FallbackToFirst(t *testing.T) {
	page := `<a href="/a/first.zip">1</a><a href="/a/second.zip">2</a>`
	got, err := catalog.ParseDownloadURL(strings.NewReader(page), catalog.GameFor("tbc"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/a/first.zip", got)
}

func TestParseDownloadURL_NoLink(t *testing.T) {
	page := `<a href="/a/readme.md">readme</a><img src="x.zip">`
	_, err := catalog.ParseDownloadURL(strings.NewReader(page), catalog.GameFor("wotlk"), nil)
	assert.ErrorIs(t, err, errors.ErrNoDownloadLinkFound)
}

func TestResolveDownloadURL_StatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := catalog.NewClient(server.URL, pkghttp.NewHTTPClient(0, ""), 0)
	require.NoError(t, err)

	_, err = client.ResolveDownloadURL(context.Background(), server.URL+"/addon/x/", "wotlk")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNetworkFailure)
	assert.Contains(t, err.Error(), "404")
}

func TestResolveDownloadURL_AppliesDetailDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mock_http.NewMockFetcher(ctrl)
	fetcher.EXPECT().Get(gomock.Any(), "https://warperia.com/addon/x/").DoAndReturn(
		func(ctx context.Context, _ string) ([]byte, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "detail fetch must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(catalog.DefaultDetailTimeout), deadline, 2*time.Second)
			return []byte(detailHTML), nil
		},
	)

	client, err := catalog.NewClient("", fetcher, 0)
	require.NoError(t, err)

	got, err := client.ResolveDownloadURL(context.Background(), "https://warperia.com/addon/x/", "classic")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/Questie-vanilla-1.12.zip", got)
}

func TestResolveDownloadURL_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, err := catalog.NewClient(server.URL, pkghttp.NewHTTPClient(0, ""), 30*time.Millisecond)
	require.NoError(t, err)

	_, err = client.ResolveDownloadURL(context.Background(), server.URL+"/addon/slow/", "wotlk")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNetworkTimeout)
}

func TestResolveDownloadURL_InvalidURL(t *testing.T) {
	client, err := catalog.NewClient("", nil, 0)
	require.NoError(t, err)
	_, err = client.ResolveDownloadURL(context.Background(), "relative/path", "wotlk")
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}
