package main

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    appConfig
		wantErr string
	}{
		{
			name: "full config",
			data: `{
				"log_level": "debug",
				"app_id": 12345,
				"app_hash": " abcdef ",
				"phone": "+15550100",
				"password": "hunter2",
				"session_file": "/tmp/s.json",
				"reply_depth": 2,
				"sticker_cache_ttl": "30m"
			}`,
			want: appConfig{
				logLevel:        zapcore.DebugLevel,
				appID:           12345,
				appHash:         "abcdef",
				phone:           "+15550100",
				password:        "hunter2",
				sessionFile:     "/tmp/s.json",
				replyDepth:      2,
				stickerCacheTTL: 30 * time.Minute,
			},
		},
		{
			name: "defaults fill the gaps",
			data: `{"app_id": 1, "app_hash": "h", "phone": "+15550100"}`,
			want: appConfig{
				logLevel:        zapcore.InfoLevel,
				appID:           1,
				appHash:         "h",
				phone:           "+15550100",
				sessionFile:     defaultSessionFile,
				replyDepth:      defaultReplyDepth,
				stickerCacheTTL: defaultStickerCacheTTL,
			},
		},
		{
			name: "reply depth zero is allowed",
			data: `{"app_id": 1, "app_hash": "h", "phone": "+15550100", "reply_depth": 0}`,
			want: appConfig{
				logLevel:        zapcore.InfoLevel,
				appID:           1,
				appHash:         "h",
				phone:           "+15550100",
				sessionFile:     defaultSessionFile,
				replyDepth:      0,
				stickerCacheTTL: defaultStickerCacheTTL,
			},
		},
		{
			name:    "not json",
			data:    `{`,
			wantErr: "unmarshal",
		},
		{
			name:    "missing app id",
			data:    `{"app_hash": "h", "phone": "+15550100"}`,
			wantErr: "app_id",
		},
		{
			name:    "missing app hash",
			data:    `{"app_id": 1, "phone": "+15550100"}`,
			wantErr: "app_hash",
		},
		{
			name:    "missing phone",
			data:    `{"app_id": 1, "app_hash": "h"}`,
			wantErr: "phone",
		},
		{
			name:    "negative reply depth",
			data:    `{"app_id": 1, "app_hash": "h", "phone": "+15550100", "reply_depth": -1}`,
			wantErr: "reply_depth",
		},
		{
			name:    "bad ttl",
			data:    `{"app_id": 1, "app_hash": "h", "phone": "+15550100", "sticker_cache_ttl": "soon"}`,
			wantErr: "sticker_cache_ttl",
		},
		{
			name:    "bad log level",
			data:    `{"app_id": 1, "app_hash": "h", "phone": "+15550100", "log_level": "loud"}`,
			wantErr: "log_level",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseConfig([]byte(tt.data))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseConfig() error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConfig() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
