package dbtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartPostgresSkipsWhenDisabled(t *testing.T) {
	t.Setenv("SKIP_INTEGRATION", "1")

	var skipped bool
	t.Run("start", func(t *testing.T) {
		defer func() { skipped = t.Skipped() }()
		StartPostgres(t)
		t.Error("StartPostgres returned instead of skipping")
	})

	assert.True(t, skipped)
}
