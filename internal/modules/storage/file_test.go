package storage

import (
	"testing"

	"github.com/slmiksa/flyboy-beats-core/internal/config"
)

func TestPublicURL(t *testing.T) {
	key := "uploads/abc.png"
	tests := []struct {
		name string
		opts config.S3Options
		want string
	}{
		{
			name: "custom domain wins",
			opts: config.S3Options{CustomDomain: "https://cdn.flyboy.example/", Bucket: "media"},
			want: "https://cdn.flyboy.example/uploads/abc.png",
		},
		{
			name: "aws default endpoint",
			opts: config.S3Options{Bucket: "media", Region: "eu-west-1"},
			want: "https://media.s3.eu-west-1.amazonaws.com/uploads/abc.png",
		},
		{
			name: "path style endpoint",
			opts: config.S3Options{Endpoint: "https://minio.internal:9000", Bucket: "media", PathStyleAccess: true},
			want: "https://minio.internal:9000/media/uploads/abc.png",
		},
		{
			name: "virtual hosted endpoint",
			opts: config.S3Options{Endpoint: "https://r2.example.com", Bucket: "media"},
			want: "https://media.r2.example.com/uploads/abc.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicURL(tt.opts, key); got != tt.want {
				t.Fatalf("publicURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyFromURL(t *testing.T) {
	key, err := keyFromURL("https://cdn.flyboy.example/uploads/abc.png")
	if err != nil {
		t.Fatalf("keyFromURL: %v", err)
	}
	if key != "uploads/abc.png" {
		t.Fatalf("key = %q", key)
	}

	key, err = keyFromURL("https://minio.internal:9000/media/uploads/abc.png")
	if err != nil {
		t.Fatalf("keyFromURL: %v", err)
	}
	if key != "uploads/abc.png" {
		t.Fatalf("path-style key = %q", key)
	}

	if _, err := keyFromURL("https://cdn.flyboy.example/private/secret.txt"); err == nil {
		t.Fatal("non-upload paths must be rejected")
	}
}
