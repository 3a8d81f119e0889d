package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"vie_bot/internal/config"
	"vie_bot/internal/domain"
	"vie_bot/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func snapshot() store.Snapshot {
	now := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)
	p := domain.NewPlayerRecord("u1", now)
	p.Balance = 1234
	return store.Snapshot{
		TakenAt: now,
		Players: []*domain.PlayerRecord{p},
		Guilds:  []*domain.Guild{{ID: "rong-lua", Name: "Rồng Lửa", OwnerID: "u1", RankLevel: 1}},
	}
}

func TestUploadWritesGzippedSnapshot(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploader(fake, "bucket", "snapshots")

	key, err := u.Upload(context.Background(), snapshot())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if key != "snapshots/2025/03/14/093005.json.gz" {
		t.Fatalf("key = %q", key)
	}
	if *fake.in.Bucket != "bucket" || *fake.in.ContentEncoding != "gzip" {
		t.Fatalf("unexpected input: %+v", fake.in)
	}

	zr, err := gzip.NewReader(bytes.NewReader(fake.body))
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	var got store.Snapshot
	if err := json.NewDecoder(zr).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Players) != 1 || got.Players[0].Balance != 1234 || got.Guilds[0].ID != "rong-lua" {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestUploadError(t *testing.T) {
	u := NewUploader(&fakeS3{err: errors.New("boom")}, "bucket", "")
	if _, err := u.Upload(context.Background(), snapshot()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewDisabledWithoutBucket(t *testing.T) {
	u, err := New(context.Background(), config.BackupConfig{})
	if err != nil || u != nil {
		t.Fatalf("got %v, %v", u, err)
	}
}
