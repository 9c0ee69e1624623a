package storage

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/unicornultrafoundation/go-slotinit/ir"
	"github.com/unicornultrafoundation/go-slotinit/logger"
)

// Encoder turns typed constants into words and storage initializers. It
// only reads its Context and may be used from many goroutines at once.
type Encoder struct {
	ctx    *ir.Context
	keys   *KeyDeriver
	strict bool

	logger.Instance
}

// NewEncoder returns an encoder for constants whose aggregates live in ctx.
func NewEncoder(ctx *ir.Context, cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hash, err := SchemeByName(cfg.KeyScheme)
	if err != nil {
		return nil, err
	}
	keys, err := NewKeyDeriver(hash, cfg.KeyCacheSize)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		ctx:      ctx,
		keys:     keys,
		strict:   cfg.Strict,
		Instance: logger.New("storage"),
	}, nil
}

func newDefaultEncoder(ctx *ir.Context) *Encoder {
	return &Encoder{
		ctx:      ctx,
		keys:     &KeyDeriver{hash: SHA256},
		Instance: logger.New("storage"),
	}
}

// Context returns the aggregate arena of the encoder.
func (e *Encoder) Context() *ir.Context {
	return e.ctx
}

// Keys returns the key deriver of the encoder.
func (e *Encoder) Keys() *KeyDeriver {
	return e.keys
}

func (e *Encoder) fieldTypes(ty ir.Type, n int) ([]ir.Type, error) {
	tys, err := e.ctx.FieldTypes(ty)
	if err != nil {
		return nil, err
	}
	if len(tys) != n {
		return nil, errors.Wrapf(ErrFieldCount, "%d fields for %s", n, e.ctx.TypeString(ty))
	}
	return tys, nil
}

// mismatch handles a constant whose value doesn't fit ty. Such constants are
// skipped unless the encoder is strict.
func (e *Encoder) mismatch(c *ir.Constant, ty ir.Type) error {
	if e.strict {
		return errors.Wrapf(ErrShapeMismatch, "%T for %s", c.Value, e.ctx.TypeString(ty))
	}
	shapeFallbacks.Inc()
	e.Log.WithFields(logrus.Fields{
		"type":  e.ctx.TypeString(ty),
		"value": fmt.Sprintf("%T", c.Value),
	}).Warn("Constant does not match its type, skipping")
	return nil
}
