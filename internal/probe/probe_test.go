package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizefit/internal/model"
	"sizefit/internal/util"
)

// Output of: ffprobe -v error -show_entries format=duration
// -show_entries stream=width,height,r_frame_rate -select_streams v:0 -of json
const sample1080p60 = `{
    "programs": [

    ],
    "streams": [
        {
            "width": 1920,
            "height": 1080,
            "r_frame_rate": "60/1"
        }
    ],
    "format": {
        "duration": "12.345000"
    }
}`

type fakeRunner struct {
	stdout string
	stderr string
	err    error
	block  bool

	gotSpec util.CmdSpec
}

func (f *fakeRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.gotSpec = spec
	if f.block {
		<-ctx.Done()
		return util.CmdResult{Code: -1}, ctx.Err()
	}
	return util.CmdResult{Stdout: []byte(f.stdout), Stderr: []byte(f.stderr), Err: f.err}, f.err
}

func TestParseJSON(t *testing.T) {
	md, err := ParseJSON([]byte(sample1080p60))
	require.NoError(t, err)
	assert.InDelta(t, 12.345, md.DurationSec, 1e-9)
	assert.Equal(t, 1920, md.Width)
	assert.Equal(t, 1080, md.Height)
	assert.Equal(t, 60.0, md.FrameRate)
	assert.Equal(t, "60/1", md.RawRate)
}

func TestParseJSON_FrameRateFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantRate float64
		wantRaw  string
	}{
		{
			name:     "missing r_frame_rate",
			json:     `{"streams":[{"width":640,"height":360}],"format":{"duration":"5"}}`,
			wantRate: 30,
			wantRaw:  "30/1",
		},
		{
			name:     "zero denominator",
			json:     `{"streams":[{"width":640,"height":360,"r_frame_rate":"0/0"}],"format":{"duration":"5"}}`,
			wantRate: 30,
			wantRaw:  "0/0",
		},
		{
			name:     "ntsc",
			json:     `{"streams":[{"width":640,"height":360,"r_frame_rate":"30000/1001"}],"format":{"duration":"5"}}`,
			wantRate: 30000.0 / 1001.0,
			wantRaw:  "30000/1001",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := ParseJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantRate, md.FrameRate, 1e-9)
			assert.Equal(t, tt.wantRaw, md.RawRate)
		})
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{name: "not json", json: `ffprobe: garbage`, wantErr: model.ErrProbeFailure},
		{name: "empty output", json: ``, wantErr: model.ErrProbeFailure},
		{name: "no format", json: `{"streams":[{"width":1,"height":1}]}`, wantErr: model.ErrMetadataMissing},
		{name: "zero duration", json: `{"streams":[{"width":1,"height":1}],"format":{"duration":"0.000000"}}`, wantErr: model.ErrMetadataMissing},
		{name: "N/A duration", json: `{"streams":[{"width":1,"height":1}],"format":{"duration":"N/A"}}`, wantErr: model.ErrMetadataMissing},
		{name: "no streams", json: `{"streams":[],"format":{"duration":"10"}}`, wantErr: model.ErrMetadataMissing},
		{name: "zero width", json: `{"streams":[{"width":0,"height":720}],"format":{"duration":"10"}}`, wantErr: model.ErrMetadataMissing},
		{name: "zero height", json: `{"streams":[{"width":1280}],"format":{"duration":"10"}}`, wantErr: model.ErrMetadataMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.json))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProbe_UsesRunner(t *testing.T) {
	fr := &fakeRunner{stdout: sample1080p60}
	md, err := Probe(context.Background(), "/videos/clip.mp4", Options{FFprobePath: "/usr/bin/ffprobe", Runner: fr})
	require.NoError(t, err)

	assert.Equal(t, "/videos/clip.mp4", md.Path)
	assert.Equal(t, "/usr/bin/ffprobe", fr.gotSpec.Path)
	assert.Equal(t, Args("/videos/clip.mp4"), fr.gotSpec.Args)
	assert.Equal(t, "/videos/clip.mp4", fr.gotSpec.Args[len(fr.gotSpec.Args)-1])
}

func TestProbe_NonZeroExit(t *testing.T) {
	fr := &fakeRunner{stderr: "clip.mp4: Invalid data found when processing input\n", err: errors.New("command failed (exit 1)")}
	_, err := Probe(context.Background(), "clip.mp4", Options{FFprobePath: "ffprobe", Runner: fr})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProbeFailure)
	assert.Contains(t, err.Error(), "Invalid data found")
}

func TestProbe_MissingPath(t *testing.T) {
	_, err := Probe(context.Background(), "clip.mp4", Options{Runner: &fakeRunner{}})
	assert.ErrorIs(t, err, model.ErrProbeFailure)
}

func TestProbe_Timeout(t *testing.T) {
	fr := &fakeRunner{block: true}
	_, err := Probe(context.Background(), "clip.mp4", Options{FFprobePath: "ffprobe", Runner: fr, Timeout: 10 * time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProbeFailure)
	assert.Contains(t, err.Error(), "timed out")
}
