package xtream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newPlaylistServer fakes a panel with two live categories ("News" with 3
// streams, "Sports" with 2) and one VOD category ("Films" with 1 item).
func newPlaylistServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player_api.php" {
			http.NotFound(w, r)
			return
		}

		switch action := r.URL.Query().Get("action"); action {
		case "":
			w.Write([]byte(authOKBody))
		case "get_live_categories":
			w.Write([]byte(`[
				{"category_id":"1","category_name":"News"},
				{"category_id":"2","category_name":"Sports"}
			]`))
		case "get_vod_categories":
			w.Write([]byte(`[{"category_id":"10","category_name":"Films"}]`))
		case "get_live_streams":
			switch r.URL.Query().Get("category_id") {
			case "1":
				w.Write([]byte(`[
					{"stream_id":101,"name":"News One","epg_channel_id":"one.uk"},
					{"stream_id":102,"name":"News Two","epg_channel_id":"two.uk"},
					{"stream_id":103,"name":"News Three"}
				]`))
			case "2":
				w.Write([]byte(`[
					{"stream_id":201,"name":"Sports One"},
					{"stream_id":202,"name":"Sports Two"}
				]`))
			default:
				w.Write([]byte("[]"))
			}
		case "get_vod_streams":
			w.Write([]byte(`[{"stream_id":301,"name":"A Film","container_extension":"mkv"}]`))
		default:
			w.Write([]byte("[]"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func playlistClient(t *testing.T) *Client {
	t.Helper()
	server := newPlaylistServer(t)
	client := NewClient(server.URL, "testuser", "testpass")
	if _, err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return client
}

// channelNumbers extracts the tvg-chno values from EXTINF lines in order.
func channelNumbers(t *testing.T, lines []string) []string {
	t.Helper()
	var numbers []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "#EXTINF:") {
			continue
		}
		idx := strings.Index(line, `tvg-chno="`)
		if idx < 0 {
			t.Fatalf("EXTINF line missing tvg-chno: %q", line)
		}
		rest := line[idx+len(`tvg-chno="`):]
		numbers = append(numbers, rest[:strings.Index(rest, `"`)])
	}
	return numbers
}

func TestBuildM3U_SequentialChannelNumbers(t *testing.T) {
	client := playlistClient(t)

	lines, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true, StartChannel: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Header + 5 entry pairs.
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d: %v", len(lines), lines)
	}

	got := channelNumbers(t, lines)
	want := []string{"100", "101", "102", "103", "104"}
	if len(got) != len(want) {
		t.Fatalf("expected %d numbered entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected tvg-chno %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildM3U_CounterSpansDomains(t *testing.T) {
	client := playlistClient(t)

	lines, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true, VOD: true, StartChannel: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := channelNumbers(t, lines)
	want := []string{"1", "2", "3", "4", "5", "6"}
	if len(got) != len(want) {
		t.Fatalf("expected %d numbered entries, got %d", len(want), len(got))
	}
	if got[len(got)-1] != "6" {
		t.Errorf("expected counter to continue into the vod domain, last number %s", got[len(got)-1])
	}
}

func TestBuildM3U_NoNumberingWithoutStartChannel(t *testing.T) {
	client := playlistClient(t)

	lines, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range lines {
		if strings.Contains(line, "tvg-chno") {
			t.Errorf("unexpected tvg-chno without StartChannel: %q", line)
		}
	}
}

func TestBuildM3U_DefaultsToLive(t *testing.T) {
	client := playlistClient(t)

	defaulted, err := client.BuildM3U(context.Background(), &PlaylistOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	explicit, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(defaulted) != len(explicit) {
		t.Fatalf("expected identical output, got %d vs %d lines", len(defaulted), len(explicit))
	}
	for i := range defaulted {
		if defaulted[i] != explicit[i] {
			t.Errorf("line %d differs: %q vs %q", i, defaulted[i], explicit[i])
		}
	}
}

func TestBuildM3U_HeaderIncludedByDefault(t *testing.T) {
	client := playlistClient(t)

	lines, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) == 0 || lines[0] != "#EXTM3U" {
		t.Errorf("expected #EXTM3U as first line, got %v", lines[:min(len(lines), 1)])
	}

	lines, err = client.BuildM3U(context.Background(), &PlaylistOptions{Live: true, Header: HeaderOmit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range lines {
		if line == "#EXTM3U" {
			t.Error("expected no header with HeaderOmit")
		}
	}
}

func TestBuildM3UFromCategory_HeaderOmittedByDefault(t *testing.T) {
	client := playlistClient(t)
	category := Category{CategoryID: "2", CategoryName: "Sports", StreamType: StreamTypeLive}

	lines, err := client.BuildM3UFromCategory(context.Background(), category, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines for 2 streams, got %d", len(lines))
	}
	for _, line := range lines {
		if line == "#EXTM3U" {
			t.Error("category fragment must not carry a header by default")
		}
	}

	lines, err = client.BuildM3UFromCategory(context.Background(), category, &PlaylistOptions{Header: HeaderInclude})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "#EXTM3U" {
		t.Errorf("expected header as first line, got %q", lines[0])
	}
	headers := 0
	for _, line := range lines {
		if line == "#EXTM3U" {
			headers++
		}
	}
	if headers != 1 {
		t.Errorf("expected exactly one header line, got %d", headers)
	}
}

func TestBuildM3UFromCategory_GroupTitleAndURLs(t *testing.T) {
	client := playlistClient(t)
	category := Category{CategoryID: "10", CategoryName: "Films", StreamType: StreamTypeVOD}

	lines, err := client.BuildM3UFromCategory(context.Background(), category, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `group-title="Films"`) {
		t.Errorf("expected group title from category, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "/movie/testuser/testpass/301.mkv") {
		t.Errorf("expected vod URL with container extension, got %q", lines[1])
	}
}

func TestBuildM3U_FileRoundTrip(t *testing.T) {
	client := playlistClient(t)
	path := filepath.Join(t.TempDir(), "playlist.m3u")

	lines, err := client.BuildM3U(context.Background(), &PlaylistOptions{Live: true, FilePath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading playlist file: %v", err)
	}
	if string(data) != strings.Join(lines, "\n")+"\n" {
		t.Error("file contents do not match returned lines")
	}
}

func TestDownloadXMLTV_WritesDocument(t *testing.T) {
	const doc = `<?xml version="1.0"?><tv/>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player_api.php":
			w.Write([]byte(authOKBody))
		case "/xmltv.php":
			fmt.Fprint(w, doc)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "testuser", "testpass")
	if _, err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "guide.xml")
	text, err := client.DownloadXMLTV(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != doc {
		t.Errorf("expected document returned, got %q", text)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(data) != doc {
		t.Errorf("expected document written verbatim, got %q", data)
	}
}
