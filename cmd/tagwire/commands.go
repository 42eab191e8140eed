package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/unkn0wn-root/tagwire"
	"github.com/unkn0wn-root/tagwire/internal/config"
)

func listOfOptions() []tagwire.Value {
	return []tagwire.Value{
		tagwire.SomeText("hello"),
		tagwire.NoText(),
		tagwire.SomeBool(true),
		tagwire.NoBool(),
	}
}

func runDemo(cfg *config.Config, log tagwire.Logger, out, errOut io.Writer) error {
	ctx := context.Background()
	vs := listOfOptions()

	encoded := tagwire.EncodeSeq(vs)
	if want := tagwire.SeqEncodedLen(vs); len(encoded) != want {
		return fmt.Errorf("encoded %d bytes, SeqEncodedLen says %d", len(encoded), want)
	}

	st, closeStore, err := newStore(ctx, cfg, log, errOut)
	if err != nil {
		return err
	}
	defer closeStore()

	obs := st.SnapshotGen(cfg.Key)
	if err := st.PutWithGen(ctx, cfg.Key, vs, obs, cfg.TTL); err != nil {
		return fmt.Errorf("store %q: %w", cfg.Key, err)
	}
	got, ok, err := st.Get(ctx, cfg.Key)
	if err != nil {
		return fmt.Errorf("load %q: %w", cfg.Key, err)
	}
	if !ok {
		return fmt.Errorf("load %q: not found after store", cfg.Key)
	}
	log.Info("demo round trip", tagwire.Fields{"key": cfg.Key, "values": len(got), "bytes": len(encoded)})

	for i, v := range got {
		fmt.Fprintf(out, "%d: %s\n", i, v)
	}
	fmt.Fprintf(out, "bytes: %s\n", hex.EncodeToString(encoded))
	return nil
}

func runEncode(cfg *config.Config, args []string, out io.Writer) error {
	vs := make([]tagwire.Value, 0, len(args))
	for _, a := range args {
		v, err := parseValue(a)
		if err != nil {
			return err
		}
		vs = append(vs, v)
	}
	cdc, err := newCodec(cfg)
	if err != nil {
		return err
	}
	b, err := cdc.Encode(vs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(b))
	return nil
}

func runDecode(cfg *config.Config, arg string, single bool, out io.Writer) error {
	b, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("decode: bad hex: %w", err)
	}

	if single {
		v, rest, err := tagwire.Decode(b)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "0: %s\n", v)
		printRest(out, rest)
		return nil
	}

	if cfg.Codec != "tagged" {
		cdc, err := newCodec(cfg)
		if err != nil {
			return err
		}
		vs, err := cdc.Decode(b)
		if err != nil {
			return err
		}
		printValues(out, vs)
		return nil
	}

	vs, rest, err := tagwire.DecodeSeq(b)
	if err != nil {
		var se *tagwire.SeqError
		if errors.As(err, &se) {
			return fmt.Errorf("decode: element %d of %d: %w", se.Index, se.Count, se.Err)
		}
		return err
	}
	printValues(out, vs)
	printRest(out, rest)
	return nil
}

func printValues(out io.Writer, vs []tagwire.Value) {
	for i, v := range vs {
		fmt.Fprintf(out, "%d: %s\n", i, v)
	}
}

func printRest(out io.Writer, rest []byte) {
	if len(rest) > 0 {
		fmt.Fprintf(out, "remainder: %s\n", hex.EncodeToString(rest))
	}
}

// parseValue reads text:<s>, text, bool:true|false or bool.
func parseValue(s string) (tagwire.Value, error) {
	kind, payload, hasPayload := strings.Cut(s, ":")
	switch kind {
	case "text":
		if !hasPayload {
			return tagwire.NoText(), nil
		}
		v, err := tagwire.NewText(payload)
		if err != nil {
			return tagwire.Value{}, fmt.Errorf("value %q: %w", s, err)
		}
		return v, nil
	case "bool":
		if !hasPayload {
			return tagwire.NoBool(), nil
		}
		switch payload {
		case "true":
			return tagwire.SomeBool(true), nil
		case "false":
			return tagwire.SomeBool(false), nil
		}
		return tagwire.Value{}, fmt.Errorf("value %q: bool payload must be true or false", s)
	default:
		return tagwire.Value{}, fmt.Errorf("value %q: want text[:<s>] or bool[:true|false]", s)
	}
}
