package main

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/tagwire"
	"github.com/unkn0wn-root/tagwire/codec"
	"github.com/unkn0wn-root/tagwire/genstore"
	asynchook "github.com/unkn0wn-root/tagwire/hooks/async"
	"github.com/unkn0wn-root/tagwire/internal/config"
	logruslog "github.com/unkn0wn-root/tagwire/log/logrus"
	slogadapter "github.com/unkn0wn-root/tagwire/log/slog"
	zaplog "github.com/unkn0wn-root/tagwire/log/zap"
	"github.com/unkn0wn-root/tagwire/provider"
	bcp "github.com/unkn0wn-root/tagwire/provider/bigcache"
	redisp "github.com/unkn0wn-root/tagwire/provider/redis"
	rp "github.com/unkn0wn-root/tagwire/provider/ristretto"
	"github.com/unkn0wn-root/tagwire/sloghooks"
	"github.com/unkn0wn-root/tagwire/store"
)

// newLogger builds the configured backend. The returned func flushes it.
func newLogger(cfg config.LogConfig, w io.Writer) (tagwire.Logger, func(), error) {
	switch cfg.Backend {
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		l.SetLevel(lvl)
		if cfg.Format == "json" {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
		return logruslog.New(l), func() {}, nil
	case "slog":
		return slogadapter.Logger{L: newSlog(cfg, w)}, func() {}, nil
	default:
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		enc := zap.NewDevelopmentEncoderConfig()
		newEnc := zapcore.NewConsoleEncoder
		if cfg.Format == "json" {
			enc = zap.NewProductionEncoderConfig()
			newEnc = zapcore.NewJSONEncoder
		}
		core := zapcore.NewCore(newEnc(enc), zapcore.AddSync(w), lvl)
		l := zap.New(core)
		return zaplog.New(l), func() { _ = l.Sync() }, nil
	}
}

func newSlog(cfg config.LogConfig, w io.Writer) *stdslog.Logger {
	var lvl stdslog.Level
	_ = lvl.UnmarshalText([]byte(cfg.Level))
	opts := &stdslog.HandlerOptions{Level: lvl}
	if cfg.Format == "json" {
		return stdslog.New(stdslog.NewJSONHandler(w, opts))
	}
	return stdslog.New(stdslog.NewTextHandler(w, opts))
}

// newCodec returns the sequence codec named by cfg.Codec, capped at MaxDecode.
func newCodec(cfg *config.Config) (codec.Codec[[]tagwire.Value], error) {
	var inner codec.Codec[[]tagwire.Value]
	switch cfg.Codec {
	case "tagged":
		inner = codec.Tagged{}
	case "cbor":
		c, err := codec.NewCBOR[[]codec.Record](true)
		if err != nil {
			return nil, err
		}
		inner = codec.Collection{Inner: c}
	case "msgpack":
		inner = codec.Collection{Inner: codec.Msgpack[[]codec.Record]{}}
	case "json":
		inner = codec.Collection{Inner: codec.JSON[[]codec.Record]{}}
	case "protobuf":
		inner = codec.Collection{Inner: codec.ProtoRecords{}}
	default:
		return nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}
	return codec.LimitCodec[[]tagwire.Value]{Inner: inner, MaxDecode: cfg.MaxDecode}, nil
}

type backend struct {
	provider provider.Provider
	gens     genstore.GenStore // nil => store default
	cost     store.SetCostFunc
}

// close releases what newBackend opened when no store took ownership.
func (b *backend) close(ctx context.Context) {
	if b.gens != nil {
		_ = b.gens.Close(ctx)
	}
	_ = b.provider.Close(ctx)
}

// newBackend opens the provider first; the redis client is only dialed once
// nothing else can fail, so an error never leaves it open.
func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	newRedis := func() goredis.UniversalClient {
		return goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	}

	b := &backend{}
	var rdb goredis.UniversalClient
	switch cfg.Provider {
	case "ristretto":
		p, err := rp.New(rp.Config{
			NumCounters: cfg.Ristretto.NumCounters,
			MaxCost:     cfg.Ristretto.MaxCost,
			BufferItems: cfg.Ristretto.BufferItems,
			Synchronous: true,
		})
		if err != nil {
			return nil, err
		}
		b.provider = p
		b.cost = func(_ string, raw []byte, _ bool, _ int) int64 { return int64(len(raw)) }
	case "redis":
		rdb = newRedis()
		p, err := redisp.New(redisp.Config{Client: rdb, CloseClient: true})
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		b.provider = p
	default:
		p, err := bcp.New(ctx, bcp.Config{
			Shards:             cfg.Bigcache.Shards,
			LifeWindow:         cfg.Bigcache.LifeWindow,
			CleanWindow:        cfg.Bigcache.CleanWindow,
			MaxEntriesInWindow: cfg.Bigcache.MaxEntriesInWindow,
			MaxEntrySize:       cfg.Bigcache.MaxEntrySize,
			HardMaxCacheSizeMB: cfg.Bigcache.HardMaxCacheSizeMB,
		})
		if err != nil {
			return nil, err
		}
		b.provider = p
	}

	if cfg.Redis.SharedGens {
		if rdb == nil {
			rdb = newRedis()
		}
		b.gens = genstore.NewRedisGenStoreWithTTL(rdb, cfg.Namespace, 24*time.Hour)
	}
	return b, nil
}

// newStore opens a backend and wires it through openStore.
func newStore(ctx context.Context, cfg *config.Config, log tagwire.Logger, hookOut io.Writer) (store.Store[[]tagwire.Value], func(), error) {
	b, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return openStore(ctx, cfg, b, log, hookOut)
}

// openStore wires codec, logger and hooks over b. Hook events go to hookOut
// through slog. The returned close func closes the store, then drains the hooks.
func openStore(ctx context.Context, cfg *config.Config, b *backend, log tagwire.Logger, hookOut io.Writer) (store.Store[[]tagwire.Value], func(), error) {
	cdc, err := newCodec(cfg)
	if err != nil {
		b.close(ctx)
		return nil, nil, err
	}

	// a CLI run sees few events; log every one
	raw := sloghooks.New(newSlog(cfg.Log, hookOut), sloghooks.Options{SelfHealEvery: 1, BulkRejectEvery: 1})
	hooks := asynchook.New(raw, 1, 256)
	st, err := store.New[[]tagwire.Value](store.Options[[]tagwire.Value]{
		Namespace:      cfg.Namespace,
		Provider:       b.provider,
		Codec:          cdc,
		Logger:         log,
		Hooks:          hooks,
		DefaultTTL:     cfg.TTL,
		BulkTTL:        cfg.TTL,
		GenStore:       b.gens,
		ComputeSetCost: b.cost,
		DisableBulk:    true, // commands only touch single names
	})
	if err != nil {
		hooks.Close()
		b.close(ctx)
		return nil, nil, err
	}
	return st, func() {
		if err := st.Close(ctx); err != nil {
			log.Warn("store close failed", tagwire.Fields{"err": err})
		}
		hooks.Close()
	}, nil
}
