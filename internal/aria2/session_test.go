package aria2

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"aria2ctl/internal/task"
)

type rpcCall struct {
	method string
	params []interface{}
}

type rpcResult struct {
	raw string
	err error
}

// fakeRPC records every call and replays a script of results. Calls
// past the end of the script get the last entry again; an empty script
// answers everything with "ok".
type fakeRPC struct {
	calls  []rpcCall
	script []rpcResult
}

func (f *fakeRPC) Call(_ context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, rpcCall{method: method, params: params})
	if len(f.script) == 0 {
		return json.RawMessage(`"ok"`), nil
	}
	i := len(f.calls) - 1
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	r := f.script[i]
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.raw), nil
}

func setupSessionTest(t *testing.T) {
	t.Helper()
	restore := readTorrentFn
	t.Cleanup(func() { readTorrentFn = restore })
}

func TestClassifyTarget(t *testing.T) {
	tests := []struct {
		target string
		want   targetKind
	}{
		{"magnet:?xt=urn:btih:abc123", kindMagnet},
		{"MAGNET:?xt=urn:btih:abc123", kindMagnet},
		{"/downloads/ubuntu.torrent", kindTorrent},
		{"C:\\files\\UBUNTU.TORRENT", kindTorrent},
		{"https://example.com/debian.iso", kindURI},
		{"ftp://mirror.example.com/f.tar.gz", kindURI},
		{"https://example.com/page?file=x.torrent&y=1", kindURI},
	}
	for _, tt := range tests {
		if got := classifyTarget(tt.target); got != tt.want {
			t.Fatalf("classifyTarget(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestEnqueueRoutesURIAndMagnet(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"plain uri", "https://example.com/debian.iso"},
		{"magnet link", "magnet:?xt=urn:btih:abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpc := &fakeRPC{script: []rpcResult{{raw: `"gid1"`}}}
			s := NewSession(rpc)

			gid, err := s.Enqueue(context.Background(), tt.target, Options{Dir: "/dl"})
			if err != nil {
				t.Fatalf("Enqueue() error: %v", err)
			}
			if gid != "gid1" {
				t.Fatalf("gid = %q, want gid1", gid)
			}

			call := rpc.calls[0]
			if call.method != "aria2.addUri" {
				t.Fatalf("method = %q, want aria2.addUri", call.method)
			}
			if !reflect.DeepEqual(call.params[0], []string{tt.target}) {
				t.Fatalf("uris = %v, want [%s]", call.params[0], tt.target)
			}
			if !reflect.DeepEqual(call.params[1], map[string]string{"dir": "/dl"}) {
				t.Fatalf("options = %v, want dir only", call.params[1])
			}
		})
	}
}

func TestEnqueueUploadsTorrentContents(t *testing.T) {
	setupSessionTest(t)
	readTorrentFn = func(path string) ([]byte, error) {
		if path != "/dl/ubuntu.torrent" {
			t.Fatalf("read %q, want /dl/ubuntu.torrent", path)
		}
		return []byte("d8:announce..."), nil
	}

	rpc := &fakeRPC{script: []rpcResult{{raw: `"gid2"`}}}
	s := NewSession(rpc)

	gid, err := s.Enqueue(context.Background(), "/dl/ubuntu.torrent", Options{})
	if err != nil {
		t.Fatalf("Enqueue() error: %v", err)
	}
	if gid != "gid2" {
		t.Fatalf("gid = %q, want gid2", gid)
	}

	call := rpc.calls[0]
	if call.method != "aria2.addTorrent" {
		t.Fatalf("method = %q, want aria2.addTorrent", call.method)
	}
	want := base64.StdEncoding.EncodeToString([]byte("d8:announce..."))
	if call.params[0] != want {
		t.Fatalf("payload = %v, want base64 of the file", call.params[0])
	}
}

func TestEnqueueTorrentReadFailure(t *testing.T) {
	setupSessionTest(t)
	readTorrentFn = func(string) ([]byte, error) {
		return nil, os.ErrNotExist
	}

	rpc := &fakeRPC{}
	s := NewSession(rpc)

	_, err := s.Enqueue(context.Background(), "/dl/missing.torrent", Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
	if len(rpc.calls) != 0 {
		t.Fatal("an unread torrent must not reach the daemon")
	}
}

func TestOptionMap(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want map[string]string
	}{
		{"zero values omitted", Options{}, map[string]string{}},
		{"dir only", Options{Dir: "/dl"}, map[string]string{"dir": "/dl"}},
		{
			"connections set split and per-server",
			Options{Connections: 8},
			map[string]string{"split": "8", "max-connection-per-server": "8"},
		},
		{
			"speed limit in kilobytes",
			Options{SpeedLimitKB: 500},
			map[string]string{"max-download-limit": "500K"},
		},
		{
			"all together",
			Options{Dir: "/dl", Connections: 4, SpeedLimitKB: 100},
			map[string]string{
				"dir":                       "/dl",
				"split":                     "4",
				"max-connection-per-server": "4",
				"max-download-limit":        "100K",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.optionMap(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("optionMap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControlMethods(t *testing.T) {
	tests := []struct {
		name   string
		invoke func(*Session, context.Context) error
		method string
		params []interface{}
	}{
		{"pause", func(s *Session, ctx context.Context) error { return s.Pause(ctx, "g1") }, "aria2.pause", []interface{}{"g1"}},
		{"pause all", func(s *Session, ctx context.Context) error { return s.PauseAll(ctx) }, "aria2.pauseAll", nil},
		{"unpause", func(s *Session, ctx context.Context) error { return s.Unpause(ctx, "g1") }, "aria2.unpause", []interface{}{"g1"}},
		{"unpause all", func(s *Session, ctx context.Context) error { return s.UnpauseAll(ctx) }, "aria2.unpauseAll", nil},
		{"remove", func(s *Session, ctx context.Context) error { return s.Remove(ctx, "g1") }, "aria2.remove", []interface{}{"g1"}},
		{"purge results", func(s *Session, ctx context.Context) error { return s.PurgeResults(ctx) }, "aria2.purgeDownloadResult", nil},
		{"shutdown", func(s *Session, ctx context.Context) error { return s.Shutdown(ctx) }, "aria2.shutdown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpc := &fakeRPC{}
			s := NewSession(rpc)

			if err := tt.invoke(s, context.Background()); err != nil {
				t.Fatalf("%s error: %v", tt.method, err)
			}
			call := rpc.calls[0]
			if call.method != tt.method {
				t.Fatalf("method = %q, want %q", call.method, tt.method)
			}
			if !reflect.DeepEqual(call.params, tt.params) {
				t.Fatalf("params = %v, want %v", call.params, tt.params)
			}
		})
	}
}

func TestListAllConcatenatesQueues(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{raw: `[{"gid":"a1","status":"active","totalLength":"100","completedLength":"50","downloadSpeed":"1024","files":[{"path":"/dl/debian.iso"}]}]`},
		{raw: `[{"gid":"b2","status":"waiting","totalLength":"200","completedLength":"0","downloadSpeed":"0"}]`},
		{raw: `[{"gid":"c3","status":"complete","totalLength":"300","completedLength":"300","downloadSpeed":"0"}]`},
	}}
	s := NewSession(rpc)

	snaps, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}

	methods := []string{"aria2.tellActive", "aria2.tellWaiting", "aria2.tellStopped"}
	for i, want := range methods {
		if rpc.calls[i].method != want {
			t.Fatalf("call %d = %q, want %q", i, rpc.calls[i].method, want)
		}
	}
	if !reflect.DeepEqual(rpc.calls[1].params, []interface{}{0, listChunk}) {
		t.Fatalf("tellWaiting params = %v, want paging window", rpc.calls[1].params)
	}

	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	if snaps[0].GID != "a1" || snaps[1].GID != "b2" || snaps[2].GID != "c3" {
		t.Fatalf("order = %s %s %s, want a1 b2 c3", snaps[0].GID, snaps[1].GID, snaps[2].GID)
	}
	if snaps[0].Name != "debian.iso" {
		t.Fatalf("name = %q, want debian.iso", snaps[0].Name)
	}
	if snaps[1].Name != "b2" {
		t.Fatalf("name = %q, want the gid fallback", snaps[1].Name)
	}
	if snaps[0].State != task.StateActive || snaps[2].State != task.StateComplete {
		t.Fatalf("states = %s %s, want active and complete", snaps[0].State, snaps[2].State)
	}
}

func TestListAllPropagatesError(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{raw: `[]`},
		{err: &ConnectionError{Endpoint: "http://localhost:6800/jsonrpc", Err: errors.New("refused")}},
	}}
	s := NewSession(rpc)

	snaps, err := s.ListAll(context.Background())
	if err == nil {
		t.Fatal("ListAll() returned nil error")
	}
	if snaps != nil {
		t.Fatalf("snaps = %v, want nil on failure", snaps)
	}
}

func TestStatusDecodesSnapshot(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{raw: `{"gid":"d4","status":"active","totalLength":"1000","completedLength":"250","downloadSpeed":"99","bittorrent":{"info":{"name":"Big Buck Bunny"}},"files":[{"path":"/dl/bbb.mkv"}]}`},
	}}
	s := NewSession(rpc)

	snap, err := s.Status(context.Background(), "d4")
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !reflect.DeepEqual(rpc.calls[0].params, []interface{}{"d4"}) {
		t.Fatalf("params = %v, want [d4]", rpc.calls[0].params)
	}
	if snap.Name != "Big Buck Bunny" {
		t.Fatalf("name = %q, torrent metadata must win", snap.Name)
	}
	if snap.CompletedLength != 250 || snap.TotalLength != 1000 || snap.DownloadSpeed != 99 {
		t.Fatalf("numbers = %d/%d at %d, want 250/1000 at 99", snap.CompletedLength, snap.TotalLength, snap.DownloadSpeed)
	}
	if got := snap.Progress(); got != 0.25 {
		t.Fatalf("Progress() = %v, want 0.25", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		st   statusInfo
		want string
	}{
		{
			"torrent metadata name",
			statusInfo{GID: "g", Bittorrent: &btInfo{Info: struct {
				Name string `json:"name"`
			}{Name: "Movie"}}, Files: []fileInfo{{Path: "/dl/movie.mkv"}}},
			"Movie",
		},
		{
			"file path base",
			statusInfo{GID: "g", Files: []fileInfo{{Path: "/dl/debian.iso"}}},
			"debian.iso",
		},
		{
			"first uri when path empty",
			statusInfo{GID: "g", Files: []fileInfo{{URIs: []uriInfo{{URI: "https://example.com/f.iso"}}}}},
			"https://example.com/f.iso",
		},
		{"gid fallback", statusInfo{GID: "g"}, "g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.st); got != tt.want {
				t.Fatalf("displayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGlobalStat(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{raw: `{"downloadSpeed":"2048","uploadSpeed":"10","numActive":"1","numWaiting":"2","numStopped":"3"}`},
	}}
	s := NewSession(rpc)

	stat, err := s.GlobalStat(context.Background())
	if err != nil {
		t.Fatalf("GlobalStat() error: %v", err)
	}
	want := GlobalStat{DownloadSpeed: 2048, UploadSpeed: 10, NumActive: 1, NumWaiting: 2, NumStopped: 3}
	if stat != want {
		t.Fatalf("GlobalStat() = %+v, want %+v", stat, want)
	}
}

func TestVersion(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{raw: `{"version":"1.36.0","enabledFeatures":["BitTorrent","Metalink"]}`},
	}}
	s := NewSession(rpc)

	v, err := s.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if v != "1.36.0" {
		t.Fatalf("Version() = %q, want 1.36.0", v)
	}
}

func TestWaitReadyRetriesUntilDaemonAnswers(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{err: &ConnectionError{Endpoint: "e", Err: errors.New("refused")}},
		{raw: `{"version":"1.36.0"}`},
	}}
	s := NewSession(rpc)

	v, err := s.WaitReady(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatalf("WaitReady() error: %v", err)
	}
	if v != "1.36.0" {
		t.Fatalf("version = %q, want 1.36.0", v)
	}
	if len(rpc.calls) < 2 {
		t.Fatalf("made %d calls, want a retry after the refusal", len(rpc.calls))
	}
}

func TestWaitReadyFailsFastOnRejectedSecret(t *testing.T) {
	rpc := &fakeRPC{script: []rpcResult{
		{err: &RPCError{Code: 1, Message: "Unauthorized"}},
	}}
	s := NewSession(rpc)

	_, err := s.WaitReady(context.Background(), 5*time.Second)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("err = %v, want *RPCError", err)
	}
	if len(rpc.calls) != 1 {
		t.Fatalf("made %d calls, a rejected secret must not be retried", len(rpc.calls))
	}
}
