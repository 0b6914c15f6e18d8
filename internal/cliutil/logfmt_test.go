package cliutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewOutputRecordInfersLevel(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{line: "plain progress line", want: "info"},
		{line: "WARN: disk almost full", want: "warn"},
		{line: "error: connection refused", want: "error"},
		{line: "informative but not a token match", want: "info"},
	}

	for _, tc := range cases {
		record := NewOutputRecord("backup", tc.line)
		if record.Level != tc.want {
			t.Fatalf("line %q: expected level %q, got %q", tc.line, tc.want, record.Level)
		}
		if record.Task != "backup" {
			t.Fatalf("expected task backup, got %q", record.Task)
		}
		if record.Source != SourceOutput {
			t.Fatalf("expected source %q, got %q", SourceOutput, record.Source)
		}
	}
}

func TestEncodeLogRecord(t *testing.T) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)

	EncodeLogRecord(enc, &bytes.Buffer{}, NewOutputRecord("job", "hello"))

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if decoded["msg"] != "hello" || decoded["task"] != "job" {
		t.Fatalf("unexpected record: %v", decoded)
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatalf("record should carry a timestamp: %v", decoded)
	}
}

func TestEncodeLogRecordNilEncoder(t *testing.T) {
	var stderr bytes.Buffer
	EncodeLogRecord(nil, &stderr, LogRecord{Message: "ignored"})
	if stderr.Len() != 0 {
		t.Fatalf("nil encoder must be a no-op, wrote %q", stderr.String())
	}
}

func TestRedactSecrets(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "template reference",
			in:   "connecting with ${DB_PASSWORD}",
			want: "connecting with ${[redacted]}",
		},
		{
			name: "key assignment",
			in:   "AWS_SECRET_ACCESS_KEY=abc123",
			want: "AWS_SECRET_ACCESS_KEY=[redacted]",
		},
		{
			name: "untouched",
			in:   "copied 12 files",
			want: "copied 12 files",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RedactSecrets(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDescribeEnvMasksSecretKeys(t *testing.T) {
	env := map[string]string{
		"REGION":      "eu-west-1",
		"API_TOKEN":   "very-secret",
		"DB_PASSWORD": "hunter2",
	}

	got := DescribeEnv(env)
	want := []string{
		"API_TOKEN=[redacted]",
		"DB_PASSWORD=[redacted]",
		"REGION=eu-west-1",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if strings.Contains(strings.Join(got, " "), "hunter2") {
		t.Fatalf("secret value leaked: %v", got)
	}
}

func TestDescribeEnvEmpty(t *testing.T) {
	if got := DescribeEnv(nil); got != nil {
		t.Fatalf("expected nil for empty env, got %v", got)
	}
}
