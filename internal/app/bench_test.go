package app

import (
	"io"
	"testing"

	config "create-thread/internal/config"
)

var (
	benchCmdSink    any
	benchConfigSink *config.Config
)

// BenchmarkStartup_NewRootCommand measures CLI startup overhead (command+flags construction).
func BenchmarkStartup_NewRootCommand(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		benchCmdSink = newRootCommand()
	}
}

// BenchmarkConfigParse_BuildConfig measures flag+env layering (steady-state).
func BenchmarkConfigParse_BuildConfig(b *testing.B) {
	home := b.TempDir()
	b.Setenv("HOME", home)
	b.Setenv("CREATETHREAD_FORMAT", "json")

	v, err := config.NewViper("")
	if err != nil {
		b.Fatalf("NewViper() error = %v", err)
	}
	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--message", "bench", "--delay", "10ms"}); err != nil {
		b.Fatalf("ParseFlags() error = %v", err)
	}
	opts := &cliOptions{Message: "bench", Delay: "10ms"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg, err := buildConfig(cmd, opts, v)
		if err != nil {
			b.Fatalf("buildConfig() error = %v", err)
		}
		benchConfigSink = cfg
	}
}

// BenchmarkSpawnAndWait_NoDelay measures the cost of one thread spawn+join.
func BenchmarkSpawnAndWait_NoDelay(b *testing.B) {
	stdoutBackup := stdout
	stdout = io.Discard
	b.Cleanup(func() { stdout = stdoutBackup })

	cfg := config.Default()
	cfg.Delay = 0

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if code := runLaunch(cfg); code != 0 {
			b.Fatalf("runLaunch() = %d", code)
		}
	}
}
