package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/nameparser/internal/library/scanner"
	"github.com/slipstream/nameparser/internal/scheduler"
)

type fakeFolderScanner struct {
	scanned []string
	fail    map[string]error
}

func (f *fakeFolderScanner) ScanFolder(_ context.Context, folder string, _ scanner.ProgressCallback) (*scanner.ScanResult, error) {
	f.scanned = append(f.scanned, folder)
	if err := f.fail[folder]; err != nil {
		return nil, err
	}
	return &scanner.ScanResult{RootPath: folder, TotalFiles: 1}, nil
}

func TestRescanTask_Run(t *testing.T) {
	boom := errors.New("boom")
	fs := &fakeFolderScanner{fail: map[string]error{"/b": boom}}

	var results []string
	task := NewRescanTask(fs, []string{"/a", "/b", "/c"}, func(r *scanner.ScanResult) {
		results = append(results, r.RootPath)
	}, zerolog.Nop())

	err := task.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"/a", "/b", "/c"}, fs.scanned)
	assert.Equal(t, []string{"/a", "/c"}, results)
}

func TestRescanTask_StopsOnCancel(t *testing.T) {
	fs := &fakeFolderScanner{fail: map[string]error{"/a": context.Canceled}}
	task := NewRescanTask(fs, []string{"/a", "/b"}, nil, zerolog.Nop())

	assert.ErrorIs(t, task.Run(context.Background()), context.Canceled)
	assert.Equal(t, []string{"/a"}, fs.scanned)
}

func TestRescanTask_NoFolders(t *testing.T) {
	task := NewRescanTask(&fakeFolderScanner{}, nil, nil, zerolog.Nop())
	assert.NoError(t, task.Run(context.Background()))
}

func TestRegisterRescanTask(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sched.Start())
	t.Cleanup(func() { _ = sched.Stop() })

	task := NewRescanTask(&fakeFolderScanner{}, []string{"/a"}, nil, zerolog.Nop())
	require.NoError(t, RegisterRescanTask(sched, "0 3 * * *", task))

	info, err := sched.GetTask(RescanTaskID)
	require.NoError(t, err)
	assert.Equal(t, "0 3 * * *", info.Cron)
	assert.Equal(t, "Library Rescan", info.Name)
}
