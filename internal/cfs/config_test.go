package cfs

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bgp59/cfssim/testutils"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", []byte(``))
	require.NoError(t, err)

	want := DefaultSimConfig()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("SimConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	buf := []byte(`
cfs_config:
  time_quantum: 50ms
  min_granularity: 2ms
  trace: true
  log_config:
    level: debug
unrelated_section:
  foo: bar
`)
	cfg, err := LoadConfig("", buf)
	require.NoError(t, err)

	want := DefaultSimConfig()
	want.TimeQuantum = 50 * time.Millisecond
	want.MinGranularity = 2 * time.Millisecond
	want.Trace = true
	want.LoggerConfig.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("SimConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigInvalidRoot(t *testing.T) {
	_, err := LoadConfig("", []byte(`- not a mapping`))
	require.Error(t, err)
}
