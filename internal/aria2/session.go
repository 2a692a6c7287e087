package aria2

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"aria2ctl/internal/task"
)

// tellWaiting/tellStopped are paged; one page this large covers any
// realistic queue.
const listChunk = 1000

var readTorrentFn = os.ReadFile

type caller interface {
	Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
}

// Session exposes the daemon operations the command layer consumes.
// Individual calls fail independently; none of them panic, so a caller
// polling in a loop can keep going across failures.
type Session struct {
	rpc caller
}

func NewSession(rpc caller) *Session {
	return &Session{rpc: rpc}
}

// Options is the per-download option set. Zero values are omitted from
// the wire mapping, leaving the daemon's own defaults in effect.
type Options struct {
	Dir          string
	Connections  int
	SpeedLimitKB int
}

func (o Options) optionMap() map[string]string {
	m := make(map[string]string)
	if o.Dir != "" {
		m["dir"] = o.Dir
	}
	if o.Connections > 0 {
		m["split"] = strconv.Itoa(o.Connections)
		m["max-connection-per-server"] = strconv.Itoa(o.Connections)
	}
	if o.SpeedLimitKB > 0 {
		m["max-download-limit"] = fmt.Sprintf("%dK", o.SpeedLimitKB)
	}
	return m
}

type targetKind int

const (
	kindURI targetKind = iota
	kindMagnet
	kindTorrent
)

func classifyTarget(target string) targetKind {
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "magnet:"):
		return kindMagnet
	case strings.HasSuffix(lower, ".torrent"):
		return kindTorrent
	default:
		return kindURI
	}
}

// Enqueue adds one download, routing on the target's shape: a magnet
// link, a path to a .torrent file, or a plain URI.
func (s *Session) Enqueue(ctx context.Context, target string, opts Options) (string, error) {
	switch classifyTarget(target) {
	case kindMagnet:
		return s.AddMagnet(ctx, target, opts)
	case kindTorrent:
		return s.AddTorrent(ctx, target, opts)
	default:
		return s.AddURI(ctx, target, opts)
	}
}

func (s *Session) AddURI(ctx context.Context, uri string, opts Options) (string, error) {
	return s.gidCall(ctx, "aria2.addUri", []string{uri}, opts.optionMap())
}

// AddMagnet goes over the same wire method as a plain URI; the daemon
// recognizes the magnet scheme itself.
func (s *Session) AddMagnet(ctx context.Context, link string, opts Options) (string, error) {
	return s.gidCall(ctx, "aria2.addUri", []string{link}, opts.optionMap())
}

// AddTorrent uploads the torrent file contents base64-encoded, so the
// daemon does not need filesystem access to the original path.
func (s *Session) AddTorrent(ctx context.Context, path string, opts Options) (string, error) {
	data, err := readTorrentFn(path)
	if err != nil {
		return "", fmt.Errorf("reading torrent file: %w", err)
	}
	payload := base64.StdEncoding.EncodeToString(data)
	return s.gidCall(ctx, "aria2.addTorrent", payload, []string{}, opts.optionMap())
}

func (s *Session) Pause(ctx context.Context, gid string) error {
	_, err := s.rpc.Call(ctx, "aria2.pause", gid)
	return err
}

func (s *Session) PauseAll(ctx context.Context) error {
	_, err := s.rpc.Call(ctx, "aria2.pauseAll")
	return err
}

func (s *Session) Unpause(ctx context.Context, gid string) error {
	_, err := s.rpc.Call(ctx, "aria2.unpause", gid)
	return err
}

func (s *Session) UnpauseAll(ctx context.Context) error {
	_, err := s.rpc.Call(ctx, "aria2.unpauseAll")
	return err
}

func (s *Session) Remove(ctx context.Context, gid string) error {
	_, err := s.rpc.Call(ctx, "aria2.remove", gid)
	return err
}

// PurgeResults drops completed, errored and removed downloads from the
// daemon's result list.
func (s *Session) PurgeResults(ctx context.Context) error {
	_, err := s.rpc.Call(ctx, "aria2.purgeDownloadResult")
	return err
}

func (s *Session) Shutdown(ctx context.Context) error {
	_, err := s.rpc.Call(ctx, "aria2.shutdown")
	return err
}

func (s *Session) Status(ctx context.Context, gid string) (task.Snapshot, error) {
	raw, err := s.rpc.Call(ctx, "aria2.tellStatus", gid)
	if err != nil {
		return task.Snapshot{}, err
	}
	var st statusInfo
	if err := json.Unmarshal(raw, &st); err != nil {
		return task.Snapshot{}, fmt.Errorf("decoding tellStatus result: %w", err)
	}
	return snapshotFromStatus(st), nil
}

// ListAll concatenates the daemon's three queues in its own order:
// active, then waiting, then stopped.
func (s *Session) ListAll(ctx context.Context) ([]task.Snapshot, error) {
	calls := []struct {
		method string
		params []interface{}
	}{
		{method: "aria2.tellActive"},
		{method: "aria2.tellWaiting", params: []interface{}{0, listChunk}},
		{method: "aria2.tellStopped", params: []interface{}{0, listChunk}},
	}

	var all []task.Snapshot
	for _, c := range calls {
		raw, err := s.rpc.Call(ctx, c.method, c.params...)
		if err != nil {
			return nil, err
		}
		var statuses []statusInfo
		if err := json.Unmarshal(raw, &statuses); err != nil {
			return nil, fmt.Errorf("decoding %s result: %w", c.method, err)
		}
		for _, st := range statuses {
			all = append(all, snapshotFromStatus(st))
		}
	}
	return all, nil
}

type GlobalStat struct {
	DownloadSpeed int64
	UploadSpeed   int64
	NumActive     int
	NumWaiting    int
	NumStopped    int
}

func (s *Session) GlobalStat(ctx context.Context) (GlobalStat, error) {
	raw, err := s.rpc.Call(ctx, "aria2.getGlobalStat")
	if err != nil {
		return GlobalStat{}, err
	}
	var info globalStatInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return GlobalStat{}, fmt.Errorf("decoding getGlobalStat result: %w", err)
	}
	return GlobalStat{
		DownloadSpeed: parseNum(info.DownloadSpeed),
		UploadSpeed:   parseNum(info.UploadSpeed),
		NumActive:     int(parseNum(info.NumActive)),
		NumWaiting:    int(parseNum(info.NumWaiting)),
		NumStopped:    int(parseNum(info.NumStopped)),
	}, nil
}

func (s *Session) Version(ctx context.Context) (string, error) {
	raw, err := s.rpc.Call(ctx, "aria2.getVersion")
	if err != nil {
		return "", err
	}
	var info versionInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return "", fmt.Errorf("decoding getVersion result: %w", err)
	}
	return info.Version, nil
}

// WaitReady polls the daemon until it answers getVersion, backing off
// between attempts. A reachable daemon that rejects the secret fails
// immediately; retrying cannot fix that.
func (s *Session) WaitReady(ctx context.Context, timeout time.Duration) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = timeout

	var version string
	attempt := func() error {
		v, err := s.Version(ctx)
		if err != nil {
			var rpcErr *RPCError
			if errors.As(err, &rpcErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		version = v
		return nil
	}
	if err := backoff.Retry(attempt, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return version, nil
}

func (s *Session) gidCall(ctx context.Context, method string, params ...interface{}) (string, error) {
	raw, err := s.rpc.Call(ctx, method, params...)
	if err != nil {
		return "", err
	}
	var gid string
	if err := json.Unmarshal(raw, &gid); err != nil {
		return "", fmt.Errorf("decoding %s result: %w", method, err)
	}
	return gid, nil
}

func snapshotFromStatus(st statusInfo) task.Snapshot {
	return task.Snapshot{
		GID:             st.GID,
		Name:            displayName(st),
		State:           task.State(st.Status),
		CompletedLength: parseNum(st.CompletedLength),
		TotalLength:     parseNum(st.TotalLength),
		DownloadSpeed:   parseNum(st.DownloadSpeed),
	}
}

// displayName picks a human name the way aria2 frontends conventionally
// do: torrent metadata name, else first file path, else first URI, else
// the gid.
func displayName(st statusInfo) string {
	if st.Bittorrent != nil && st.Bittorrent.Info.Name != "" {
		return st.Bittorrent.Info.Name
	}
	if len(st.Files) > 0 {
		if p := st.Files[0].Path; p != "" {
			return filepath.Base(p)
		}
		if len(st.Files[0].URIs) > 0 && st.Files[0].URIs[0].URI != "" {
			return st.Files[0].URIs[0].URI
		}
	}
	return st.GID
}

func parseNum(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
