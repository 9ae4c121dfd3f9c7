package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/authportal/internal/logger"
)

func TestInit_Console(t *testing.T) {
	tests := []struct {
		name       string
		cfg        logger.Log
		wantLines  int
		wantJSON   bool
		wantCaller bool
	}{
		{
			name:      "no writer enabled",
			cfg:       logger.Log{LogLevel: "info", ServiceName: "web", AppName: "authportal"},
			wantLines: 0,
		},
		{
			name: "json at info drops trace",
			cfg: logger.Log{
				LogLevel:    "info",
				LogEnv:      "test",
				ServiceName: "web",
				AppName:     "authportal",
				Console:     logger.Console{Enabled: true},
			},
			wantLines: 2,
			wantJSON:  true,
		},
		{
			name: "json at trace with caller",
			cfg: logger.Log{
				LogLevel:     "trace",
				LogEnv:       "test",
				ServiceName:  "web",
				AppName:      "authportal",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			wantLines: 3,
			wantJSON:  true,
		},
		{
			name: "json at debug with caller",
			cfg: logger.Log{
				LogLevel:     "debug",
				LogEnv:       "test",
				ServiceName:  "web",
				AppName:      "authportal",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			wantLines:  2,
			wantJSON:   true,
			wantCaller: true,
		},
		{
			name: "human readable console",
			cfg: logger.Log{
				LogLevel:    "trace",
				ServiceName: "web",
				AppName:     "authportal",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantLines: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureInit(t, tt.cfg)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if out == "" {
				lines = nil
			}

			require.Len(t, lines, tt.wantLines)

			if !tt.wantJSON {
				return
			}

			for _, l := range lines {
				var entry struct {
					App    string `json:"app"`
					Env    string `json:"env"`
					Scope  string `json:"scope"`
					Caller string `json:"caller"`
				}

				require.NoError(t, json.Unmarshal([]byte(l), &entry), l)
				assert.Equal(t, "authportal", entry.App)
				assert.Equal(t, "test", entry.Env)
				assert.Equal(t, "0b6f", entry.Scope)
				assert.Equal(t, tt.wantCaller, entry.Caller != "")
			}
		})
	}
}

func captureInit(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	initErr := logger.Init(cfg)
	if initErr == nil {
		gwErr := errors.New("gateway unreachable")

		log.Info().Str("scope", "0b6f").Msg("session context created")
		log.Error().Err(gwErr).Str("scope", "0b6f").Msg("token verification failed")
		log.Trace().Err(gwErr).Str("scope", "0b6f").Msg("gateway call")
	}

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr
	out := <-outC

	require.NoError(t, initErr)

	return out
}

func TestInit_Errors(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loglevel loud is not supported")

	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", AppName: "test"}), logger.ErrServiceNameIsEmpty)
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "test"}), logger.ErrAppNameIsEmpty)
}

func TestLevelWriter_WriteLevel(t *testing.T) {
	var trace, info, warn, errs bytes.Buffer

	lw := &logger.LevelWriter{TraceWriter: &trace, InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs}

	for _, l := range []zerolog.Level{
		zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel,
		zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel,
	} {
		_, err := lw.WriteLevel(l, []byte(l.String()+"\n"))
		require.NoError(t, err)
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("nope"))
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, "trace\n", trace.String())
	assert.Equal(t, "debug\ninfo\n", info.String())
	assert.Equal(t, "warn\n", warn.String())
	assert.Equal(t, "error\nfatal\n", errs.String())
}

func TestInit_FileLogging(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			InfoLog:  "info.log",
			WarnLog:  "warn.log",
			ErrorLog: "error.log",
			TraceLog: "trace.log",
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to the info file")
	log.Error().Msg("to the error file")

	info, err := os.ReadFile(dir + "/info.log")
	require.NoError(t, err)
	assert.Contains(t, string(info), "to the info file")
	assert.NotContains(t, string(info), "to the error file")

	errLog, err := os.ReadFile(dir + "/error.log")
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to the error file")
}
