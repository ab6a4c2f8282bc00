package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDate_Formats(t *testing.T) {
	d, err := ParseRunDate("2025-10-07")
	require.NoError(t, err)

	assert.Equal(t, "20251007", d.Compact())
	assert.Equal(t, "Tuesday, October 07, 2025", d.Long())
	assert.Equal(t, "2025-10-07", d.String())
	assert.False(t, d.IsZero())
	assert.True(t, RunDate{}.IsZero())
}

func TestParseRunDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "2025/10/07", "20251007", "2025-13-01"} {
		_, err := ParseRunDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestNewRunDate_DropsClock(t *testing.T) {
	a := NewRunDate(time.Date(2025, 10, 7, 0, 0, 1, 0, time.Local))
	b := NewRunDate(time.Date(2025, 10, 7, 23, 59, 59, 0, time.Local))
	assert.Equal(t, a, b)
	assert.Equal(t, a.Compact(), b.Compact())
}

func TestRunReport(t *testing.T) {
	var r RunReport
	r.Add(StageResult{Stage: StageSync, Policy: PolicyBestEffort, Status: StageStatusFailed, Err: assert.AnError})
	r.Add(StageResult{Stage: StagePublish, Policy: PolicyFatal, Status: StageStatusSuccess})

	assert.False(t, r.Failed(), "best-effort failures do not fail the run")

	sync, ok := r.Result(StageSync)
	require.True(t, ok)
	assert.Equal(t, assert.AnError.Error(), sync.Error)

	_, ok = r.Result(StageArchive)
	assert.False(t, ok)

	r.Add(StageResult{Stage: StageGenerate, Policy: PolicyFatal, Status: StageStatusFailed})
	assert.True(t, r.Failed())
}

func TestPublishState_String(t *testing.T) {
	assert.Equal(t, "Pending", PublishStatePending.String())
	assert.Equal(t, "Pushed", PublishStatePushed.String())
	assert.Equal(t, "SyncFailed", SyncStateFailed.String())
}
