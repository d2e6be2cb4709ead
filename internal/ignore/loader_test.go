package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.False(t, cfg.Table("anything"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[tables]
patterns = ["temp_*", "audit_log", "!temp_keep"]

[views]
patterns = ["v_internal_*"]

[functions]
patterns = ["_*"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"wildcard table", cfg.Table("temp_data"), true},
		{"literal table", cfg.Table("audit_log"), true},
		{"negated table", cfg.Table("temp_keep"), false},
		{"plain table", cfg.Table("account"), false},
		{"view", cfg.View("v_internal_stats"), true},
		{"other view", cfg.View("active_account"), false},
		{"private function", cfg.Function("_helper"), true},
		{"public function", cfg.Function("add"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoadInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[tables\npatterns = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestInvalidPatternMatchesLiterally(t *testing.T) {
	cfg := &Config{Tables: []string{"[bad"}}
	assert.True(t, cfg.Table("[bad"))
	assert.False(t, cfg.Table("bad"))
}
