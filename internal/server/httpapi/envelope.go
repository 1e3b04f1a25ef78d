package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
)

// envelope is the body of every response.
type envelope struct {
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
	Success   bool   `json:"success"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

var nowFn = time.Now

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = nowFn().UnixMilli()
	w.Header().Set(common.HeaderContentType, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeOK(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, envelope{Code: common.CodeOK, Msg: "success", Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, status, code int, msg string) {
	writeEnvelope(w, status, envelope{Code: code, Msg: msg})
}
