package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CHESSDUO_ADDR", "CHESSDUO_ALLOW_ORIGINS", "CHESSDUO_DATA_DIR", "CHESSDUO_PERSIST", "CHESSDUO_LOG_LEVEL", "CHESSDUO_ROOM_TTL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		DataDir:      "./data/rooms",
		Persist:      true,
		LogLevel:     "info",
		RoomTTL:      24 * time.Hour,
	}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("CHESSDUO_ADDR", ":9000")
	t.Setenv("CHESSDUO_PERSIST", "off")
	t.Setenv("CHESSDUO_LOG_LEVEL", "debug")
	t.Setenv("CHESSDUO_ROOM_TTL", "2h")

	cfg, err := Load([]string{"-addr", ":8080", "-allow-origins", "https://a.example, https://b.example,"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("flag did not override env: %q", cfg.Addr)
	}
	if cfg.Persist {
		t.Fatal("CHESSDUO_PERSIST=off ignored")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.RoomTTL != 2*time.Hour {
		t.Fatalf("room ttl = %v", cfg.RoomTTL)
	}
	if got, want := cfg.Origins(), []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("origins = %v, want %v", got, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CHESSDUO_ROOM_TTL", "")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty addr", []string{"-addr="}, "-addr"},
		{"persist without dir", []string{"-persist", "-data-dir="}, "-data-dir"},
		{"negative ttl", []string{"-room-ttl=-1h"}, "-room-ttl"},
		{"unknown flag", []string{"-nope"}, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			if err == nil {
				t.Fatalf("Load(%v) succeeded", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsBadTTLEnv(t *testing.T) {
	t.Setenv("CHESSDUO_ROOM_TTL", "soon")
	_, err := Load(nil)
	if err == nil || !strings.Contains(err.Error(), "CHESSDUO_ROOM_TTL") {
		t.Fatalf("err = %v, want one naming CHESSDUO_ROOM_TTL", err)
	}
}
