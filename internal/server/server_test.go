package server

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubCleaner struct {
	removed int64
	err     error
	calls   int
}

func (c *stubCleaner) CleanupExpiredTokens(context.Context) (int64, error) {
	c.calls++
	return c.removed, c.err
}

func TestPurgeExpiredTokens(t *testing.T) {
	var buf bytes.Buffer
	lgr := zerolog.New(&buf)

	ok := &stubCleaner{removed: 3}
	PurgeExpiredTokens(context.Background(), ok, lgr)
	assert.Equal(t, 1, ok.calls)
	assert.Contains(t, buf.String(), `"removed":3`)

	buf.Reset()
	failing := &stubCleaner{err: errors.New("db down")}
	PurgeExpiredTokens(context.Background(), failing, lgr)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "db down")
}
