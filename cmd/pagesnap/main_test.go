package main_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagesnap"
	main "github.com/fwojciec/pagesnap/cmd/pagesnap"
	"github.com/fwojciec/pagesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"extract", "serve"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	for _, flag := range []string{"--engine", "--browser-bin", "--ready", "--max-payload"} {
		assert.Contains(t, helpOutput, flag)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "Flags:")
	assert.Contains(t, helpOutput, "extract")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), nil, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMain_Run_RejectsUnknownEngine(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Processor = &mock.Processor{}

	err := m.Run(context.Background(), []string{"--engine=firefox", "extract", "https://example.com/"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine")
}

func TestMain_Run_RejectsInvalidQuality(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Processor = &mock.Processor{}

	err := m.Run(context.Background(), []string{"--quality=0", "extract", "https://example.com/"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality")
}

func TestCmdExtract(t *testing.T) {
	t.Parallel()

	t.Run("prints one response per URL in argument order", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
				// Finish the first URL last to exercise ordering.
				if strings.HasSuffix(req.URL, "/first") {
					time.Sleep(20 * time.Millisecond)
				}
				return pagesnap.NewTextResult("text of " + req.URL)
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", "https://example.com/first", "https://example.com/second"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		var lines []map[string]any
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			var line map[string]any
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
			lines = append(lines, line)
		}
		require.Len(t, lines, 2)
		assert.Equal(t, "text of https://example.com/first", lines[0]["data"])
		assert.Equal(t, "text of https://example.com/second", lines[1]["data"])
	})

	t.Run("maps strategy aliases", func(t *testing.T) {
		t.Parallel()

		var got pagesnap.Strategy
		m := main.NewMain()
		m.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
				got = req.Strategy
				return pagesnap.NewImageResult("aGk=", pagesnap.ContentTypeJPEG)
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", "--strategy=puppeteer", "https://example.com/"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		assert.Equal(t, pagesnap.StrategyRender, got)
		assert.JSONEq(t, `{"success":true,"data":"aGk=","contentType":"image/jpeg"}`, stdout.String())
	})

	t.Run("returns error when any URL fails", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
				if req.URL == "" {
					return pagesnap.NewFailure(pagesnap.Errorf(pagesnap.EINVALID, "URL is required"))
				}
				return pagesnap.NewTextResult("ok")
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", "https://example.com/", ""}, stdout, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 URLs failed")
		assert.Contains(t, stdout.String(), `"error":"URL is required"`)
	})

	t.Run("rejects unknown strategy without processing", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
				t.Error("processor should not be called")
				return nil
			},
		}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", "--strategy=selenium", "https://example.com/"}, &bytes.Buffer{}, stderr)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Invalid action specified")
	})

	t.Run("limits concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		m := main.NewMain()
		m.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, req *pagesnap.Request) *pagesnap.Result {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return pagesnap.NewTextResult("")
			},
		}

		args := []string{"extract", "-c", "2"}
		for i := 0; i < 6; i++ {
			args = append(args, "https://example.com/")
		}
		err := m.Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})
}

func TestCmdServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Processor = &mock.Processor{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stderr := &bytes.Buffer{}
	err := m.Run(ctx, []string{"serve", "--addr=127.0.0.1:0"}, &bytes.Buffer{}, stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "listening")
	assert.Contains(t, stderr.String(), "shutting down")
}
