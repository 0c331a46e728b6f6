// Package http holds the HTTP server plumbing shared by every feature.
package http

import (
	"net/http"
	"time"
)

// NewServer は公開APIサーバー用に設定されたhttp.Serverを作成します。
//
// 設定:
//   - ReadHeaderTimeout: ヘッダー読み込みの最大時間（Slowloris対策）
//   - ReadTimeout / WriteTimeout: リクエスト全体の読み書きの上限
//   - IdleTimeout: keep-alive接続の維持期間
//
// 注意:
//   - http.Server のゼロ値にはタイムアウトがないため、常にこの関数を使うこと
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
