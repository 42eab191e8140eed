package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unkn0wn-root/tagwire"
	"github.com/unkn0wn-root/tagwire/internal/config"
)

const listOfOptionsHex = "04000000" + "000105000000" + "68656c6c6f" + "0000" + "010101" + "0100"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut)
	return out.String(), err
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want tagwire.Value
	}{
		{"text:hello", tagwire.SomeText("hello")},
		{"text:", tagwire.SomeText("")},
		{"text:a:b", tagwire.SomeText("a:b")},
		{"text", tagwire.NoText()},
		{"bool:true", tagwire.SomeBool(true)},
		{"bool:false", tagwire.SomeBool(false)},
		{"bool", tagwire.NoBool()},
	}
	for _, tc := range cases {
		got, err := parseValue(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: got %s want %s", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"bool:1", "bool:yes", "int:3", "", "text:\xff"} {
		if _, err := parseValue(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestEncode(t *testing.T) {
	out, err := runCLI(t, "encode", "text:hello", "text", "bool:true", "bool")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.TrimSpace(out) != listOfOptionsHex {
		t.Fatalf("got %s want %s", out, listOfOptionsHex)
	}
}

func TestDecode(t *testing.T) {
	out, err := runCLI(t, "decode", listOfOptionsHex+"ff")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "0: text(\"hello\")\n1: text(none)\n2: bool(true)\n3: bool(none)\nremainder: ff\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestDecodeSingle(t *testing.T) {
	out, err := runCLI(t, "--single", "decode", "010101")
	if err != nil {
		t.Fatalf("decode --single: %v", err)
	}
	if out != "0: bool(true)\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDecodeReportsElementIndex(t *testing.T) {
	// second element has bool byte 0x02
	_, err := runCLI(t, "decode", "02000000"+"0100"+"010102")
	if err == nil || !strings.Contains(err.Error(), "element 1 of 2") {
		t.Fatalf("want element index in error, got %v", err)
	}
}

func TestEncodeDecodeOtherCodecs(t *testing.T) {
	for _, name := range []string{"cbor", "msgpack", "json", "protobuf"} {
		t.Run(name, func(t *testing.T) {
			hexOut, err := runCLI(t, "--codec", name, "encode", "text:hi", "bool")
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			out, err := runCLI(t, "--codec", name, "decode", strings.TrimSpace(hexOut))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out != "0: text(\"hi\")\n1: bool(none)\n" {
				t.Fatalf("got %q", out)
			}
		})
	}
}

func TestDemo(t *testing.T) {
	for _, provider := range []string{"bigcache", "ristretto"} {
		t.Run(provider, func(t *testing.T) {
			out, err := runCLI(t, "--provider", provider, "--log-level", "error", "demo")
			if err != nil {
				t.Fatalf("demo: %v", err)
			}
			want := "0: text(\"hello\")\n1: text(none)\n2: bool(true)\n3: bool(none)\nbytes: " + listOfOptionsHex + "\n"
			if out != want {
				t.Fatalf("got:\n%s\nwant:\n%s", out, want)
			}
		})
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tagwire.yaml")
	body := "codec: json\nlog:\n  backend: logrus\n  level: error\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	jsonOut, err := runCLI(t, "--config", p, "encode", "bool:false")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.TrimSpace(jsonOut) == "0100000001010000" {
		t.Fatalf("config codec ignored")
	}

	// flag wins over file
	out, err := runCLI(t, "--config", p, "--codec", "tagged", "encode", "bool:false")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.TrimSpace(out) != "01000000"+"010100" {
		t.Fatalf("got %s", out)
	}
}

func TestRunErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"frobnicate"},
		{"--provider", "memcached", "demo"},
		{"decode"},
		{"decode", "zz"},
		{"--log-backend", "stdout", "encode"},
	}
	for _, args := range cases {
		if _, err := runCLI(t, args...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	_, err := runCLI(t, "encode", "text:ok", "text:\xff")
	if !errors.Is(err, tagwire.ErrInvalidEncoding) {
		t.Fatalf("want ErrInvalidEncoding, got %v", err)
	}
}

func TestStoreHooksReachHookOutput(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Log.Level = "debug"

	b, err := newBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	k := "one:" + cfg.Namespace + ":" + cfg.Key
	if ok, err := b.provider.Set(ctx, k, []byte("not an envelope"), 1, 0); err != nil || !ok {
		t.Fatalf("inject: ok=%v err=%v", ok, err)
	}

	var hookOut bytes.Buffer
	st, closeStore, err := openStore(ctx, cfg, b, tagwire.NopLogger{}, &hookOut)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if _, ok, err := st.Get(ctx, cfg.Key); err != nil || ok {
		t.Fatalf("Get on corrupt entry should miss, ok=%v err=%v", ok, err)
	}
	closeStore() // drains the async hooks

	out := hookOut.String()
	if !strings.Contains(out, "tagwire.self_heal") || !strings.Contains(out, "reason=corrupt") {
		t.Fatalf("hook line missing from output: %q", out)
	}
	if strings.Contains(out, cfg.Key) {
		t.Fatalf("storage key should be redacted: %q", out)
	}
}

func TestNewBackendErrorDoesNotDialRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Bigcache.Shards = 3 // bigcache wants a power of two
	cfg.Redis.SharedGens = true
	cfg.Redis.Addr = "127.0.0.1:0"

	b, err := newBackend(context.Background(), cfg)
	if err == nil {
		b.close(context.Background())
		t.Fatalf("expected bigcache config error")
	}
	if b != nil {
		t.Fatalf("backend returned alongside error")
	}
}
