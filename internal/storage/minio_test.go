package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hatchops/internal/config"
)

func TestNewMinIO_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{name: "missing endpoint", cfg: config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, want: "endpoint"},
		{name: "missing credentials", cfg: config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, want: "credentials"},
		{name: "missing bucket", cfg: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, want: "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewMinIO_ReportsEveryMissingField(t *testing.T) {
	_, err := NewMinIO(config.MinIOConfig{})
	assert.ErrorContains(t, err, "endpoint")
	assert.ErrorContains(t, err, "credentials")
	assert.ErrorContains(t, err, "bucket")
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, "exports/abc/performance.xlsx", ExportKey("abc", "performance.xlsx"))
	assert.Equal(t, "exports/abc/evil.xlsx", ExportKey("abc", "../../evil.xlsx"))
}

func TestDownloadParams(t *testing.T) {
	got := downloadParams("exports/abc/performance_B-01.xlsx")
	assert.Equal(t, `attachment; filename="performance_B-01.xlsx"`, got.Get("response-content-disposition"))
}
