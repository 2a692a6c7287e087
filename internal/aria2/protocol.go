package aria2

import (
	"encoding/json"
	"fmt"
)

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is an error object returned by a reachable daemon, e.g. an
// unknown gid or a rejected secret.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("aria2 rpc error %d: %s", e.Code, e.Message)
}

// statusInfo mirrors the daemon's tellStatus/tellActive entries. aria2
// serializes every numeric field as a decimal string.
type statusInfo struct {
	GID             string     `json:"gid"`
	Status          string     `json:"status"`
	TotalLength     string     `json:"totalLength"`
	CompletedLength string     `json:"completedLength"`
	DownloadSpeed   string     `json:"downloadSpeed"`
	ErrorMessage    string     `json:"errorMessage"`
	Bittorrent      *btInfo    `json:"bittorrent"`
	Files           []fileInfo `json:"files"`
}

type btInfo struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
}

type fileInfo struct {
	Path string    `json:"path"`
	URIs []uriInfo `json:"uris"`
}

type uriInfo struct {
	URI string `json:"uri"`
}

type versionInfo struct {
	Version         string   `json:"version"`
	EnabledFeatures []string `json:"enabledFeatures"`
}

type globalStatInfo struct {
	DownloadSpeed string `json:"downloadSpeed"`
	UploadSpeed   string `json:"uploadSpeed"`
	NumActive     string `json:"numActive"`
	NumWaiting    string `json:"numWaiting"`
	NumStopped    string `json:"numStopped"`
}
