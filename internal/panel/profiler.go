//go:build profiler
// +build profiler

package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/felixge/fgprof"
	"github.com/google/gops/agent"

	"github.com/regenrek/metarbar/internal/profiling"
	"github.com/regenrek/metarbar/internal/userpath"
)

const (
	cpuProfileEnv       = "METARBAR_CPU_PROFILE"
	cpuProfileSecsEnv   = "METARBAR_CPU_PROFILE_SECS"
	memProfileEnv       = "METARBAR_MEM_PROFILE"
	fgprofProfileEnv    = "METARBAR_FGPROF"
	fgprofProfileSecs   = "METARBAR_FGPROF_SECS"
	profileDoneEnv      = "METARBAR_PROFILE_DONE"
	profileStartDelay   = "METARBAR_PROFILE_START_DELAY"
	profileStartOnFetch = "METARBAR_PROFILE_START_ON_FETCH"
	profileTriggerWait  = "METARBAR_PROFILE_TRIGGER_TIMEOUT"
	gopsEnv             = "METARBAR_GOPS"
	gopsAddrEnv         = "METARBAR_GOPS_ADDR"
	gopsConfigDirEnv    = "METARBAR_GOPS_CONFIG_DIR"
	defaultProfileSecs  = 30
)

type panelProfiler struct {
	cpuPath    string
	memPath    string
	fgPath     string
	donePath   string
	cpuFile    *os.File
	fgFile     *os.File
	fgStop     func() error
	cpuDur     time.Duration
	fgDur      time.Duration
	startDelay time.Duration
	stopMu     sync.Mutex
	stopOnce   sync.Once
}

func startProfiler(ctx context.Context) func() {
	cpuPath := strings.TrimSpace(os.Getenv(cpuProfileEnv))
	memPath := strings.TrimSpace(os.Getenv(memProfileEnv))
	fgPath := strings.TrimSpace(os.Getenv(fgprofProfileEnv))
	donePath := strings.TrimSpace(os.Getenv(profileDoneEnv))
	enableGops := envBool(gopsEnv)
	if cpuPath == "" && memPath == "" && fgPath == "" && !enableGops {
		return nil
	}
	profiler := &panelProfiler{
		cpuPath:  cpuPath,
		memPath:  memPath,
		fgPath:   fgPath,
		donePath: donePath,
	}
	if enableGops {
		profiler.startGopsAgent()
	}
	profiler.startProfiles(ctx)
	return profiler.stop
}

func (p *panelProfiler) startProfiles(ctx context.Context) {
	if p == nil {
		return
	}
	durations := p.resolveProfileDurations()
	startOnFetch := envBool(profileStartOnFetch)
	p.stopOnContext(ctx)
	go p.runProfileSchedule(ctx, durations, startOnFetch)
}

type profileDurations struct {
	cpuDur     time.Duration
	fgDur      time.Duration
	startDelay time.Duration
	waitFor    time.Duration
}

func (p *panelProfiler) resolveProfileDurations() profileDurations {
	p.cpuDur = profileDuration()
	p.fgDur = profileDurationFromEnv(fgprofProfileSecs, p.cpuDur)
	p.startDelay = profileDurationFromEnv(profileStartDelay, 0)
	return profileDurations{
		cpuDur:     p.cpuDur,
		fgDur:      p.fgDur,
		startDelay: p.startDelay,
		waitFor:    profileDurationFromEnv(profileTriggerWait, 0),
	}
}

func (p *panelProfiler) runProfileSchedule(ctx context.Context, d profileDurations, startOnFetch bool) {
	if startOnFetch {
		if !profiling.Wait(ctx, d.waitFor) {
			slog.Warn("panel: profiler trigger timeout; starting anyway")
		}
	}
	total := p.profileTotalDuration(d)
	p.startCPU(ctx, d.cpuDur, d.startDelay)
	offset := p.profileOffsets(d)
	if p.fgPath != "" && d.fgDur > 0 {
		p.startFgprof(ctx, d.fgDur, offset)
	}
	if total > 0 {
		p.stopAfter(ctx, total)
	}
}

func (p *panelProfiler) profileTotalDuration(d profileDurations) time.Duration {
	total := time.Duration(0)
	if d.startDelay > 0 {
		total += d.startDelay
	}
	if p.cpuPath != "" && d.cpuDur > 0 {
		total += d.cpuDur
	}
	if p.fgPath != "" && d.fgDur > 0 {
		total += d.fgDur
	}
	return total
}

func (p *panelProfiler) profileOffsets(d profileDurations) time.Duration {
	offset := d.startDelay
	if p.cpuPath != "" && d.cpuDur > 0 {
		offset += d.cpuDur
	}
	return offset
}

func (p *panelProfiler) startCPU(ctx context.Context, duration, delay time.Duration) {
	if p == nil || p.cpuPath == "" {
		return
	}
	go func() {
		if err := sleepWithContext(ctx, delay); err != nil {
			return
		}
		path, err := sanitizeProfilePath(p.cpuPath)
		if err != nil {
			slog.Warn("panel: cpu profile path invalid", slog.Any("err", err))
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			slog.Warn("panel: open cpu profile failed", slog.Any("err", err))
			return
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			_ = file.Close()
			slog.Warn("panel: start cpu profile failed", slog.Any("err", err))
			return
		}
		p.stopMu.Lock()
		p.cpuFile = file
		p.stopMu.Unlock()
		slog.Info("panel: cpu profile started", slog.String("path", path))
		if duration <= 0 {
			return
		}
		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.stopCPU()
		case <-timer.C:
			p.stopCPU()
		}
	}()
}

func (p *panelProfiler) startFgprof(ctx context.Context, duration, delay time.Duration) {
	if p == nil || p.fgPath == "" || duration <= 0 {
		return
	}
	go func() {
		if err := sleepWithContext(ctx, delay); err != nil {
			return
		}
		path, err := sanitizeProfilePath(p.fgPath)
		if err != nil {
			slog.Warn("panel: fgprof profile path invalid", slog.Any("err", err))
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			slog.Warn("panel: open fgprof profile failed", slog.Any("err", err))
			return
		}
		stop := fgprof.Start(file, fgprof.FormatPprof)
		p.stopMu.Lock()
		p.fgFile = file
		p.fgStop = stop
		p.stopMu.Unlock()
		slog.Info("panel: fgprof profile started", slog.String("path", path))
		if err := sleepWithContext(ctx, duration); err != nil {
			p.stopFgprof()
			return
		}
		p.stopFgprof()
	}()
}

func (p *panelProfiler) stopAfter(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		p.stop()
	case <-timer.C:
		p.stop()
	}
}

func (p *panelProfiler) stopOnContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	go func() {
		<-ctx.Done()
		p.stop()
	}()
}

func (p *panelProfiler) stopCPU() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	if p.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = p.cpuFile.Close()
	p.cpuFile = nil
}

func (p *panelProfiler) stopFgprof() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	if p.fgFile == nil {
		return
	}
	if p.fgStop != nil {
		if err := p.fgStop(); err != nil {
			slog.Warn("panel: fgprof stop failed", slog.Any("err", err))
		}
	}
	_ = p.fgFile.Close()
	p.fgFile = nil
	p.fgStop = nil
}

func (p *panelProfiler) stop() {
	p.stopOnce.Do(func() {
		p.stopCPU()
		p.stopFgprof()
		if p.memPath != "" {
			if err := writeHeapProfile(p.memPath); err != nil {
				slog.Warn("panel: heap profile failed", slog.Any("err", err))
			}
		}
		if p.donePath != "" {
			if err := writeDoneMarker(p.donePath); err != nil {
				slog.Warn("panel: profiler done hook failed", slog.Any("err", err))
			}
		}
	})
}

func profileDuration() time.Duration {
	raw := strings.TrimSpace(os.Getenv(cpuProfileSecsEnv))
	if raw == "" {
		return time.Duration(defaultProfileSecs) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("panel: invalid env", slog.String("env", cpuProfileSecsEnv), slog.Any("err", err))
		return time.Duration(defaultProfileSecs) * time.Second
	}
	return time.Duration(secs) * time.Second
}

func profileDurationFromEnv(env string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("panel: invalid env", slog.String("env", env), slog.Any("err", err))
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func sanitizeProfilePath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.New("profile path is required")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("profile path contains control characters: %q", path)
		}
	}
	path = userpath.ExpandUser(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve profile path %q: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create profile dir %q: %w", dir, err)
	}
	return abs, nil
}

func sanitizeDirPath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.New("directory path is required")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("directory path contains control characters: %q", path)
		}
	}
	path = userpath.ExpandUser(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve directory path %q: %w", path, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", abs, err)
	}
	return abs, nil
}

func writeHeapProfile(raw string) error {
	path, err := sanitizeProfilePath(raw)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Warn("panel: close heap profile failed", slog.Any("err", cerr))
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(file); err != nil {
		return err
	}
	slog.Info("panel: heap profile written", slog.String("path", path))
	return nil
}

func writeDoneMarker(raw string) error {
	path, err := sanitizeProfilePath(raw)
	if err != nil {
		return err
	}
	payload := []byte(time.Now().Format(time.RFC3339Nano) + "\n")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return err
	}
	slog.Info("panel: profiler done", slog.String("path", path))
	return nil
}

func envBool(name string) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func sanitizeAddr(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", errors.New("address is required")
	}
	for _, r := range value {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("address contains control characters: %q", value)
		}
	}
	return value, nil
}

func (p *panelProfiler) startGopsAgent() {
	opts := agent.Options{
		ShutdownCleanup: true,
	}
	if addrRaw := strings.TrimSpace(os.Getenv(gopsAddrEnv)); addrRaw != "" {
		if addr, err := sanitizeAddr(addrRaw); err == nil {
			opts.Addr = addr
		} else {
			slog.Warn("panel: gops addr invalid", slog.Any("err", err))
		}
	}
	if dirRaw := strings.TrimSpace(os.Getenv(gopsConfigDirEnv)); dirRaw != "" {
		if dir, err := sanitizeDirPath(dirRaw); err == nil {
			opts.ConfigDir = dir
		} else {
			slog.Warn("panel: gops config dir invalid", slog.Any("err", err))
		}
	}
	if err := agent.Listen(opts); err != nil {
		slog.Warn("panel: gops agent failed", slog.Any("err", err))
	}
}
