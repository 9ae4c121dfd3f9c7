package storage

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

const scanBatch = 256

// resetPrefix removes every key below prefix. Other keys of the database
// are left alone.
func resetPrefix(ctx context.Context, client goredis.UniversalClient, prefix string) error {
	iter := client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := client.Del(ctx, batch...).Err(); err != nil {
				return err //nolint:wrapcheck
			}

			batch = batch[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if len(batch) > 0 {
		return client.Del(ctx, batch...).Err() //nolint:wrapcheck
	}

	return nil
}
