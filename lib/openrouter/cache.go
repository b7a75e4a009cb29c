package openrouter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errReplyNotFound = badger.ErrKeyNotFound

// quiz answers don't go stale quickly, but models get deprecated and free
// tiers rotate, so cached replies still expire
const REPLY_LIFETIME = int64((time.Hour / time.Second) * 24 * 7)

type cachedReply struct {
	Reply     string
	ExpiresAt int64
}

type answerCache struct {
	db    *badger.DB
	model string
}

func (c answerCache) key(prompt string) []byte {
	sum := sha256.Sum256([]byte(prompt))
	return []byte("reply:" + c.model + ":" + hex.EncodeToString(sum[:]))
}

func (c answerCache) get(ctx context.Context, prompt string) (string, error) {
	if c.db == nil {
		return "", errReplyNotFound
	}

	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key := c.key(prompt)
	span.SetAttributes(attribute.String("cache_key", string(key)))

	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return "", errReplyNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return "", err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return "", err
	}

	var cached cachedReply
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return "", err
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		tx := c.db.NewTransaction(true)
		defer tx.Commit()

		err = tx.Delete(key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		span.SetStatus(codes.Ok, "CACHE EXPIRED")
		return "", errReplyNotFound
	}

	return cached.Reply, nil
}

func (c answerCache) set(ctx context.Context, prompt, reply string) error {
	if c.db == nil {
		return nil
	}

	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	serialized := bytes.NewBuffer(nil)
	err := gob.NewEncoder(serialized).Encode(cachedReply{
		Reply:     reply,
		ExpiresAt: time.Now().Unix() + REPLY_LIFETIME,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize reply")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set(c.key(prompt), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}
