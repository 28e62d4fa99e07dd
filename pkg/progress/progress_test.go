package progress_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/trinity-method/trinity-sdk/pkg/progress"
	"github.com/trinity-method/trinity-sdk/pkg/types"
)

func TestRecorder_Concurrent(t *testing.T) {
	rec := progress.NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Emit(types.ProgressEvent{Kind: types.EventPhaseEntered, Phase: types.PhaseSyncing})
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Events(), 10)
	assert.Len(t, rec.Phases(types.EventPhaseEntered), 10)
	assert.Empty(t, rec.Failures())
}

func TestMulti(t *testing.T) {
	a, b := progress.NewRecorder(), progress.NewRecorder()
	sink := progress.Multi(a, nil, b, progress.Nop)

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseVerifying, Message: "boom"})

	assert.Len(t, a.Failures(), 1)
	assert.Len(t, b.Failures(), 1)
	assert.Equal(t, "boom", b.Failures()[0].Message)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := progress.NewLogSink(zerolog.New(&buf).Level(zerolog.DebugLevel))

	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseSucceeded, Phase: types.PhaseSyncing, Count: 17, Message: "synced"})
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"phase":"Syncing"`)
	assert.Contains(t, buf.String(), `"count":17`)

	buf.Reset()
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseCleaningUp, Severity: types.SeverityWarning})
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	sink.Emit(types.ProgressEvent{Kind: types.EventPhaseFailed, Phase: types.PhaseDoubleFault, Severity: types.SeverityCritical})
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"critical":true`)
}
