package worker

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appsamples/internal/model"
	"appsamples/internal/storage"
	"appsamples/internal/storage/mocks"
)

const stitchBase = "ann@example.com/pano"

func stitchFixture(t *testing.T, runner *fakeRunner) (*Stitcher, map[string][]byte, string) {
	t.Helper()
	workDir := t.TempDir()
	store := new(mocks.MockStorage)
	puts := make(map[string][]byte)

	for key, data := range map[string]string{
		stitchBase + "/input/a.jpg.0": "AAA",
		stitchBase + "/input/a.jpg.1": "BB",
		stitchBase + "/input/b.jpg.0": "CCC",
	} {
		store.On("Get", mock.Anything, key).Return(io.NopCloser(strings.NewReader(data)), storage.ObjectInfo{Key: key}, nil)
	}
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		func(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
			b, _ := io.ReadAll(r)
			puts[key] = b
			return storage.ObjectInfo{Key: key}
		}, nil)

	s := NewStitcher(StitcherConfig{WorkDir: workDir, LogDir: t.TempDir()}, store, runner, zap.NewNop(), nil)
	s.now = func() time.Time { return time.Unix(1300000000, 0) }
	return s, puts, workDir
}

func stitchJob() model.StitchJob {
	return model.StitchJob{
		Base: stitchBase,
		InputFiles: []model.StitchInputFile{
			{Name: "a.jpg", Chunks: []string{"a.jpg.0", "a.jpg.1"}},
			{Name: "b.jpg", Chunks: []string{"b.jpg.0"}},
		},
	}
}

func decodeState(t *testing.T, puts map[string][]byte) model.StitchState {
	t.Helper()
	raw, ok := puts[stitchBase+"/output/stitch.state"]
	require.True(t, ok, "state not written")
	var state model.StitchState
	require.NoError(t, json.Unmarshal(raw, &state))
	return state
}

func TestStitcher_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		runner := &fakeRunner{}
		s, puts, workDir := stitchFixture(t, runner)

		status := s.Run(ctx, stitchJob())

		assert.Equal(t, model.StitchDone, status)
		assert.Equal(t, []string{
			"convert", "convert",
			"match-n-shift", "ptoanchor", "pto2mk", "make", "convert",
			"convert",
		}, runner.names())
		assert.Equal(t, []string{"-o", "pano.1.pto", "input000.jpg", "input001.jpg"}, runner.calls[2].Args)

		out := stitchBase + "/output/"
		assert.Equal(t, "AAABB", string(puts[out+"input000.jpg"]))
		assert.Equal(t, "CCC", string(puts[out+"input001.jpg"]))
		assert.Contains(t, puts, out+"input000-thumb.jpg")
		assert.Contains(t, puts, out+"stitch.jpg")
		assert.Contains(t, puts, out+"stitch-thumb.jpg")
		assert.Equal(t, "DONE", string(puts[out+"stitch.status"]))
		assert.Contains(t, string(puts[out+"stitch.log"]), "stitch_done")

		state := decodeState(t, puts)
		assert.Equal(t, model.StitchDone, state.Status)
		assert.Equal(t, float64(1300000000), state.UpdateTime)
		assert.Equal(t, stitchBase+"/output", state.OutputBase)
		assert.Equal(t, []model.StitchImagePair{
			{Full: "input000.jpg", Thumb: "input000-thumb.jpg"},
			{Full: "input001.jpg", Thumb: "input001-thumb.jpg"},
		}, state.Input)
		require.NotNil(t, state.Output)
		assert.Equal(t, "stitch.jpg", state.Output.Full)
		assert.Equal(t, "stitch.log", state.Log)

		entries, err := os.ReadDir(workDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "work dir not removed")
	})

	t.Run("failing tool marks the job failed", func(t *testing.T) {
		runner := &fakeRunner{failOn: "ptoanchor"}
		s, puts, workDir := stitchFixture(t, runner)

		status := s.Run(ctx, stitchJob())

		assert.Equal(t, model.StitchFailed, status)
		state := decodeState(t, puts)
		assert.Equal(t, model.StitchFailed, state.Status)
		assert.Nil(t, state.Output)
		assert.Equal(t, "stitch.log", state.Log)
		assert.Len(t, state.Input, 2)
		assert.Contains(t, string(puts[stitchBase+"/output/stitch.log"]), "command failed: ptoanchor")
		assert.NotContains(t, runner.names(), "pto2mk")

		entries, err := os.ReadDir(workDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing panorama fails", func(t *testing.T) {
		s, puts, _ := stitchFixture(t, &fakeRunner{})
		s.runner = noOutputRunner{}
		job := stitchJob()
		job.InputFiles = nil

		assert.Equal(t, model.StitchFailed, s.Run(ctx, job))
		assert.Contains(t, string(puts[stitchBase+"/output/stitch.log"]), "stitch produced no stitch.jpg")
	})
}

type noOutputRunner struct{}

func (noOutputRunner) Run(context.Context, Command) (Result, error) { return Result{}, nil }

func TestStitcher_Handle(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{}
	s, puts, _ := stitchFixture(t, runner)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	s.metrics = m

	payload, err := json.Marshal(stitchJob())
	require.NoError(t, err)

	assert.NoError(t, s.Handle(ctx, model.Task{Name: "t1", Payload: payload}))
	assert.Equal(t, "DONE", string(puts[stitchBase+"/output/stitch.status"]))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stitchJob.WithLabelValues(model.StitchDone)))

	// Undecodable jobs are acknowledged so they do not loop forever.
	assert.NoError(t, s.Handle(ctx, model.Task{Name: "t2", Payload: []byte("{")}))
	assert.NoError(t, s.Handle(ctx, model.Task{Name: "t3", Payload: []byte(`{"input_files":[]}`)}))
}
