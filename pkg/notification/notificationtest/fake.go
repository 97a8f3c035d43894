// Package notificationtest はテスト用の notification.Decoder 実装を提供する。
package notificationtest

import (
	"sync"
	"sync/atomic"

	"github.com/nao1215/pushnotify/pkg/notification"
)

// unsetResult はResultが設定されていない場合に返すUnknownの判別子。
const unsetResult notification.Type = "Set Fake.Result to the desired notification"

// Fake はあらかじめ設定した通知を返すデコーダー。
// 呼び出し回数を記録する。
type Fake struct {
	// Service はServiceNameが返すサービス名。
	Service string
	// Result はDecodeが返す通知。nilの場合はUnknownを返す。
	Result notification.Notification

	calls    atomic.Int64
	mu       sync.Mutex
	payloads []string
}

var _ notification.Decoder = (*Fake)(nil)

// NewFake はserviceNameに束縛され、resultを返すFakeを生成する。
func NewFake(serviceName string, result notification.Notification) *Fake {
	return &Fake{Service: serviceName, Result: result}
}

// ServiceName はサービス名を返す。
func (f *Fake) ServiceName() string {
	return f.Service
}

// Decode は呼び出し回数とペイロードを記録し、Resultを返す。
func (f *Fake) Decode(payload string) notification.Notification {
	f.calls.Add(1)
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()

	if f.Result == nil {
		return notification.Unknown{Type: unsetResult}
	}
	return f.Result
}

// Calls はDecodeの呼び出し回数を返す。
func (f *Fake) Calls() int64 {
	return f.calls.Load()
}

// Payloads はDecodeに渡されたペイロードを呼び出し順に返す。
func (f *Fake) Payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.payloads...)
}
