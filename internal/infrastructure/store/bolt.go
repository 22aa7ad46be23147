package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/openfoods/openfoods/internal/domain"
)

const foodBucket = "foods"

// BoltStore implements domain.FoodRepository backed by BoltDB. Keys are
// big-endian ids so cursor order is id order.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBolt opens (or creates) a BoltDB-backed store at path.
func OpenBolt(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(foodBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Close closes the BoltDB store.
func (b *BoltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// List returns every stored food ordered by id.
func (b *BoltStore) List(ctx context.Context) ([]domain.Food, error) {
	if b == nil || b.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	foods := []domain.Food{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := foodsBucket(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(k, v []byte) error {
			var f domain.Food
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("decode food %x: %w", k, err)
			}
			foods = append(foods, f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// Get retrieves a food by id.
func (b *BoltStore) Get(ctx context.Context, id int) (domain.Food, error) {
	if b == nil || b.db == nil {
		return domain.Food{}, domain.ErrStoreUnavailable
	}

	var food domain.Food
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := foodsBucket(tx)
		if err != nil {
			return err
		}
		f, err := getFood(bucket, id)
		food = f
		return err
	})
	return food, err
}

// Put stores food under its id.
func (b *BoltStore) Put(ctx context.Context, food domain.Food) error {
	if b == nil || b.db == nil {
		return domain.ErrStoreUnavailable
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := foodsBucket(tx)
		if err != nil {
			return err
		}
		return putFood(bucket, food)
	})
}

// SetLiked updates the like state of a food in a single transaction.
func (b *BoltStore) SetLiked(ctx context.Context, id int, liked bool) (bool, error) {
	if b == nil || b.db == nil {
		return false, domain.ErrStoreUnavailable
	}

	var changed bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := foodsBucket(tx)
		if err != nil {
			return err
		}
		f, err := getFood(bucket, id)
		if err != nil {
			return err
		}
		if f.IsLiked == liked {
			return nil
		}
		changed = true
		return putFood(bucket, f.WithLiked(liked, b.now().UTC()))
	})
	return changed, err
}

func foodsBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(foodBucket))
	if bucket == nil {
		return nil, fmt.Errorf("food bucket missing")
	}
	return bucket, nil
}

func getFood(bucket *bolt.Bucket, id int) (domain.Food, error) {
	v := bucket.Get(encodeID(id))
	if v == nil {
		return domain.Food{}, domain.ErrFoodNotFound
	}
	var f domain.Food
	if err := json.Unmarshal(v, &f); err != nil {
		return domain.Food{}, fmt.Errorf("decode food %d: %w", id, err)
	}
	return f, nil
}

func putFood(bucket *bolt.Bucket, food domain.Food) error {
	v, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("encode food %d: %w", food.ID, err)
	}
	return bucket.Put(encodeID(food.ID), v)
}

// encodeID flips the sign bit so negative ids sort before positive ones.
func encodeID(id int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(id))^(1<<63))
	return buf
}
