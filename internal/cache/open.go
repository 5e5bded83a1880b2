package cache

import (
	"time"

	"go.uber.org/multierr"

	"gl-setup/internal/config"
)

const documentTTL = 10 * time.Minute

// Caches holds the backends selected by the configuration. Without REDIS_ADDR
// documents are not cached; without NATS_URL nothing is published.
type Caches struct {
	Documents   DocumentCache
	Invalidator Invalidator
	closers     []func() error
}

func Open(cfg config.Config) (*Caches, error) {
	c := &Caches{Documents: Nop{}}
	var invs Multi
	if cfg.RedisAddr != "" {
		r := NewRedis(cfg.RedisAddr, documentTTL)
		c.Documents = r
		invs = append(invs, r)
		c.closers = append(c.closers, r.Close)
	}
	if cfg.NATSURL != "" {
		n, err := NewNATS(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, multierr.Append(err, c.Close())
		}
		invs = append(invs, n)
		c.closers = append(c.closers, func() error { n.Close(); return nil })
	}
	switch len(invs) {
	case 0:
		c.Invalidator = Nop{}
	case 1:
		c.Invalidator = invs[0]
	default:
		c.Invalidator = invs
	}
	return c, nil
}

func (c *Caches) Close() error {
	var err error
	for _, fn := range c.closers {
		err = multierr.Append(err, fn())
	}
	c.closers = nil
	return err
}
