package main

import (
	"reflect"
	"testing"
)

func TestExtractConfigFlagAbsent(t *testing.T) {
	path, rest := extractConfigFlag([]string{"--server", "127.0.0.1:5432"})
	if path != "" {
		t.Fatalf("path = %q, want empty", path)
	}
	if !reflect.DeepEqual(rest, []string{"--server", "127.0.0.1:5432"}) {
		t.Fatalf("rest = %v, want unchanged args", rest)
	}
}

func TestExtractConfigFlagPresent(t *testing.T) {
	path, rest := extractConfigFlag([]string{"--config", "matidb.yaml", "--server"})
	if path != "matidb.yaml" {
		t.Fatalf("path = %q, want matidb.yaml", path)
	}
	if !reflect.DeepEqual(rest, []string{"--server"}) {
		t.Fatalf("rest = %v, want [--server]", rest)
	}
}

func TestExtractConfigFlagMiddle(t *testing.T) {
	path, rest := extractConfigFlag([]string{"--server", "--config", "c.json", "addr", "db"})
	if path != "c.json" {
		t.Fatalf("path = %q, want c.json", path)
	}
	if !reflect.DeepEqual(rest, []string{"--server", "addr", "db"}) {
		t.Fatalf("rest = %v, want [--server addr db]", rest)
	}
}

func TestExtractConfigFlagMissingValue(t *testing.T) {
	path, rest := extractConfigFlag([]string{"--config"})
	if path != "" {
		t.Fatalf("path = %q, want empty when --config has no value", path)
	}
	if !reflect.DeepEqual(rest, []string{"--config"}) {
		t.Fatalf("rest = %v, want unchanged args", rest)
	}
}
