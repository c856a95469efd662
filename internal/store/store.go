package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/forPelevin/lecnotes/internal/types"
)

var bucketLectures = []byte("lectures")

// ErrNotFound is returned by Get and Delete for unknown videos.
var ErrNotFound = errors.New("lecture not found")

// Store keeps one record per processed video, keyed by video name.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLectures)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put inserts or overwrites the record for rec.Video.
func (s *Store) Put(rec types.Record) error {
	if rec.Video == "" {
		return errors.New("record has no video name")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLectures).Put([]byte(rec.Video), data)
	})
}

func (s *Store) Get(video string) (types.Record, error) {
	var rec types.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketLectures).Get([]byte(video))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, video)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return types.Record{}, err
	}
	return rec, nil
}

// All returns every record keyed by video name.
func (s *Store) All() (map[string]types.Record, error) {
	out := map[string]types.Record{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLectures).ForEach(func(k, v []byte) error {
			var rec types.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			out[string(k)] = rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(video string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketLectures)
		if b.Get([]byte(video)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, video)
		}
		return b.Delete([]byte(video))
	})
}

// ExportJSON writes all records as one object keyed by video name, indented
// with four spaces. The file is replaced atomically.
func (s *Store) ExportJSON(path string) error {
	all, err := s.All()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) Close() error {
	return s.db.Close()
}
