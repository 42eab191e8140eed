// Command tagwire encodes, decodes and stores tagged value sequences.
//
//	tagwire [flags] demo
//	tagwire [flags] encode text:hello text bool:true bool
//	tagwire [flags] decode [--single] 0400000000010500...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/unkn0wn-root/tagwire/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	single     bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var f flags
	cfg := config.Default()

	flagSet := pflag.NewFlagSet("tagwire", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	flagSet.String("namespace", cfg.Namespace, "store namespace")
	flagSet.String("key", cfg.Key, "name the demo sequence is stored under")
	flagSet.String("provider", cfg.Provider, "byte store: bigcache, ristretto or redis")
	flagSet.String("codec", cfg.Codec, "value codec: tagged, cbor, msgpack, json or protobuf")
	flagSet.Duration("ttl", cfg.TTL, "entry TTL")
	flagSet.Int("max-decode", cfg.MaxDecode, "largest payload handed to the codec (0 = no cap)")
	flagSet.String("log-backend", cfg.Log.Backend, "zap, logrus or slog")
	flagSet.String("log-level", cfg.Log.Level, "debug, info, warn or error")
	flagSet.String("log-format", cfg.Log.Format, "console or json")
	flagSet.String("redis-addr", cfg.Redis.Addr, "redis address")
	flagSet.Bool("shared-gens", cfg.Redis.SharedGens, "keep generations in redis")
	flagSet.BoolVar(&f.single, "single", false, "decode: input is one value, not a sequence")
	flagSet.SetInterspersed(true)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(flagSet, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return errors.New("missing command: demo, encode or decode")
	}

	log, closeLog, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "demo":
		if len(cmdArgs) != 0 {
			return fmt.Errorf("demo: unexpected argument %q", cmdArgs[0])
		}
		return runDemo(cfg, log, stdout, stderr)
	case "encode":
		return runEncode(cfg, cmdArgs, stdout)
	case "decode":
		if len(cmdArgs) != 1 {
			return errors.New("decode: want exactly one hex argument")
		}
		return runDecode(cfg, cmdArgs[0], f.single, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// applyFlags copies explicitly set flags over cfg, so they win over the file.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(fl *pflag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "namespace":
			cfg.Namespace, err = fs.GetString(fl.Name)
		case "key":
			cfg.Key, err = fs.GetString(fl.Name)
		case "provider":
			cfg.Provider, err = fs.GetString(fl.Name)
		case "codec":
			cfg.Codec, err = fs.GetString(fl.Name)
		case "ttl":
			cfg.TTL, err = fs.GetDuration(fl.Name)
		case "max-decode":
			cfg.MaxDecode, err = fs.GetInt(fl.Name)
		case "log-backend":
			cfg.Log.Backend, err = fs.GetString(fl.Name)
		case "log-level":
			cfg.Log.Level, err = fs.GetString(fl.Name)
		case "log-format":
			cfg.Log.Format, err = fs.GetString(fl.Name)
		case "redis-addr":
			cfg.Redis.Addr, err = fs.GetString(fl.Name)
		case "shared-gens":
			cfg.Redis.SharedGens, err = fs.GetBool(fl.Name)
		}
	})
	return err
}
