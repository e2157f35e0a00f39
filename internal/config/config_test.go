package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
app:
  name: vidhub-test
  port: 9090
database:
  host: db
  port: 5432
  user: vid
  password: pw
  dbname: vidhub
jwt:
  secret: s3cr3t
  expire_hours: 2
kafka:
  brokers: ["k1:9092"]
  topics:
    video_events: test.video.events
elasticsearch:
  index:
    videos: test-videos
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "vidhub-test" || cfg.App.Port != 9090 {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if got := cfg.Database.DSN(); got != "host=db port=5432 user=vid password=pw dbname=vidhub sslmode=disable" {
		t.Fatalf("DSN() = %q", got)
	}
	if cfg.JWT.ExpireDuration() != 2*time.Hour {
		t.Fatalf("ExpireDuration() = %v", cfg.JWT.ExpireDuration())
	}
	if cfg.Kafka.Topic("video_events") != "test.video.events" {
		t.Fatalf("Topic() = %q", cfg.Kafka.Topic("video_events"))
	}
	if cfg.Kafka.Topic("missing") != "missing" {
		t.Fatal("unconfigured topic should fall back to its logical name")
	}
	if cfg.Elasticsearch.IndexName("videos") != "test-videos" {
		t.Fatalf("IndexName() = %q", cfg.Elasticsearch.IndexName("videos"))
	}

	t.Run("defaults", func(t *testing.T) {
		if cfg.Engagement.ComposeConcurrency != 8 {
			t.Fatalf("ComposeConcurrency = %d, want 8", cfg.Engagement.ComposeConcurrency)
		}
		if cfg.Engagement.RecommendedChannels != 10 {
			t.Fatalf("RecommendedChannels = %d, want 10", cfg.Engagement.RecommendedChannels)
		}
		if cfg.MinIO.PresignExpiry() != 15*time.Minute {
			t.Fatalf("PresignExpiry() = %v", cfg.MinIO.PresignExpiry())
		}
	})

	if GetJWT().Secret != "s3cr3t" {
		t.Fatal("global config not updated by Load")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	if _, err := Load(writeConfig(t, "app:\n  name: x\n")); err == nil {
		t.Fatal("expected error when jwt.secret is empty")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
