package notification

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encode は通知をserviceName宛てのペイロードにシリアライズする。
// 出力はバリアントのフィールドに "type" と "serviceName" を加えたフラットなJSONで、
// 同じサービスのデコーダーでDecodeすると元の通知が得られる。
func Encode(serviceName string, n Notification) (string, error) {
	if n == nil {
		return "", errors.New("通知がnilです")
	}

	fields := map[string]json.RawMessage{}
	if _, ok := n.(Unknown); !ok {
		data, err := json.Marshal(n)
		if err != nil {
			return "", fmt.Errorf("通知データのシリアライズに失敗: %w", err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return "", fmt.Errorf("通知データの展開に失敗: %w", err)
		}
	}

	typ, err := json.Marshal(string(n.NotificationType()))
	if err != nil {
		return "", fmt.Errorf("通知タイプのシリアライズに失敗: %w", err)
	}
	fields["type"] = typ

	if serviceName != "" {
		service, err := json.Marshal(serviceName)
		if err != nil {
			return "", fmt.Errorf("サービス名のシリアライズに失敗: %w", err)
		}
		fields["serviceName"] = service
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("ペイロードのシリアライズに失敗: %w", err)
	}
	return string(payload), nil
}

// DecodeFields は通知のフィールドを汎用のマップとして返す。
// 表示やログ出力のために型を意識せず内容を扱いたい場合に使う。
func DecodeFields(n Notification) (map[string]any, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("通知データのシリアライズに失敗: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("通知データのデシリアライズに失敗: %w", err)
	}
	return fields, nil
}
