package llm

import (
	"context"
	"encoding/binary"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

// Cache memoizes successful completions keyed by the full request. A size
// below 1 disables caching.
func Cache(size int) Middleware {
	return func(next LLMClient) LLMClient {
		if size < 1 {
			return next
		}
		c, err := lru.New[uint64, string](size)
		if err != nil {
			return next
		}
		return &cached{next: next, lru: c}
	}
}

type cached struct {
	next LLMClient
	lru  *lru.Cache[uint64, string]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) Close() error { return c.next.Close() }

func (c *cached) Complete(ctx context.Context, req Request) (string, error) {
	key := requestKey(req)
	if out, ok := c.lru.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Complete(ctx, req)
	if err != nil {
		return out, err
	}
	c.lru.Add(key, out)
	return out, nil
}

func requestKey(req Request) uint64 {
	h := xxh3.New()
	var n [8]byte
	for _, s := range []string{req.Model, req.System, req.User} {
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = h.Write(n[:])
		_, _ = h.WriteString(s)
	}
	binary.LittleEndian.PutUint32(n[:4], math.Float32bits(req.Temperature))
	_, _ = h.Write(n[:4])
	return h.Sum64()
}
