package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/genfig/internal/adapters/fs"
)

func TestLocalPublisher(t *testing.T) {
	src := t.TempDir()
	files := []string{
		filepath.Join(src, "figure-light.png"),
		filepath.Join(src, "figure-dark.png"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte(filepath.Base(f)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := t.TempDir()
	publisher := NewLocalPublisher(fs.NewOSFileSystem(), out)

	if err := publisher.Publish(context.Background(), "sine", files); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	dstDir := filepath.Join(out, "_static", "vis", "js", "figures", "sine")
	if publisher.FigureDir("sine") != dstDir {
		t.Errorf("Expected %s, got %s", dstDir, publisher.FigureDir("sine"))
	}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dstDir, filepath.Base(f)))
		if err != nil {
			t.Fatalf("Expected %s to be copied: %v", filepath.Base(f), err)
		}
		if string(data) != filepath.Base(f) {
			t.Errorf("Unexpected content %q", data)
		}
	}
}

func TestLocalPublisherMissingSource(t *testing.T) {
	publisher := NewLocalPublisher(fs.NewOSFileSystem(), t.TempDir())
	err := publisher.Publish(context.Background(), "sine", []string{filepath.Join(t.TempDir(), "nope.png")})
	if err == nil {
		t.Error("Expected error for a missing source file")
	}
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(ctx context.Context, figureName string, files []string) error {
	p.calls++
	return p.err
}

func TestMultiStopsAtFirstError(t *testing.T) {
	failing := &countingPublisher{err: os.ErrPermission}
	after := &countingPublisher{}

	err := Multi{failing, after}.Publish(context.Background(), "sine", nil)
	if err != os.ErrPermission {
		t.Fatalf("Expected permission error, got %v", err)
	}
	if after.calls != 0 {
		t.Error("Expected later publishers to be skipped")
	}
}

func TestS3Config(t *testing.T) {
	if (S3Config{}).Enabled() {
		t.Error("Expected empty config to be disabled")
	}

	cfg := S3Config{Endpoint: "localhost:9000", Bucket: "figures"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected missing credentials to fail validation")
	}

	cfg.AccessKey, cfg.SecretKey = "minio", "minio123"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestS3ObjectKey(t *testing.T) {
	p, err := NewS3Publisher(S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "figures",
		Prefix:    "book/",
	}, fs.NewOSFileSystem())
	if err != nil {
		t.Fatalf("NewS3Publisher() error = %v", err)
	}

	got := p.ObjectKey("sine", filepath.Join("/tmp", "_build", "figure-dark.png"))
	want := "book/_static/vis/js/figures/sine/figure-dark.png"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
