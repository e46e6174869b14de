package main

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tc := range cases {
		if got := parseLogLevel(tc.raw); got != tc.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
