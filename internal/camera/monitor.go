package camera

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pixoonair/internal/logger"
)

// Sentinels emitted by AVFoundation when a capture session starts or stops.
const (
	StartSentinel = "AVCaptureSessionDidStartRunningNotification"
	StopSentinel  = "AVCaptureSessionDidStopRunningNotification"
)

const (
	defaultPollInterval      = 100 * time.Millisecond
	maxConsecutiveReadErrors = 5
)

var (
	ErrAlreadyStarted = errors.New("camera monitor already started")
	ErrNilStopFlag    = errors.New("camera monitor needs a stop flag")
	errNoCommand      = errors.New("empty command")
)

// Predicate builds the `log stream --predicate` filter for the two sentinels.
func Predicate(start, stop string) string {
	return fmt.Sprintf("(eventMessage CONTAINS %q || eventMessage CONTAINS %q)", start, stop)
}

// Config controls the log subprocess and the watchdog.
type Config struct {
	Command       []string      // argv; the first stdout line is treated as a filter echo
	Env           []string      // extra environment for the subprocess
	StartSentinel string        // substring that fires onActive
	StopSentinel  string        // substring that fires onIdle
	PollInterval  time.Duration // how often the watchdog checks the StopFlag
}

// DefaultConfig streams the unified log filtered to capture session events.
func DefaultConfig() Config {
	return Config{
		Command:       []string{"log", "stream", "--predicate", Predicate(StartSentinel, StopSentinel)},
		StartSentinel: StartSentinel,
		StopSentinel:  StopSentinel,
		PollInterval:  defaultPollInterval,
	}
}

// SpawnError is returned by Start when the subprocess cannot be launched.
// No monitoring happens in that case.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %q: %v", e.Command, e.Err) }
func (e *SpawnError) Unwrap() error { return e.Err }

// Monitor supervises one log subprocess.
type Monitor struct {
	cfg Config
	log *logger.Logger

	startOnce atomic.Bool
	running   atomic.Bool
	wg        sync.WaitGroup
}

// NewMonitor returns a monitor. Zero fields of cfg fall back to DefaultConfig.
func NewMonitor(cfg Config, log *logger.Logger) *Monitor {
	def := DefaultConfig()
	if len(cfg.Command) == 0 {
		cfg.Command = def.Command
	}
	if cfg.StartSentinel == "" {
		cfg.StartSentinel = def.StartSentinel
	}
	if cfg.StopSentinel == "" {
		cfg.StopSentinel = def.StopSentinel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Monitor{cfg: cfg, log: log}
}

// Start launches the subprocess plus the reader and watchdog goroutines and
// returns without blocking. onActive and onIdle run on the reader goroutine;
// they must hand off anything slow.
func (m *Monitor) Start(onActive, onIdle func(), flag *StopFlag) error {
	if flag == nil {
		return ErrNilStopFlag
	}
	if !m.startOnce.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if len(m.cfg.Command) == 0 || m.cfg.Command[0] == "" {
		return &SpawnError{Err: errNoCommand}
	}
	name := m.cfg.Command[0]

	cmd := exec.Command(name, m.cfg.Command[1:]...)
	if len(m.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), m.cfg.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Command: name, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &SpawnError{Command: name, Err: err}
	}

	m.log.Infow("camera_monitor_started", "pid", cmd.Process.Pid, "poll_interval", m.cfg.PollInterval)
	m.running.Store(true)

	readerDone := make(chan struct{})
	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		defer close(readerDone)
		m.readLoop(stdout, onActive, onIdle)
		m.running.Store(false)
		if err := cmd.Wait(); err != nil && !flag.ShouldStop() {
			m.log.Warnw("camera_monitor_process_exited", "err", err)
		}
		m.log.Infow("camera_monitor_reader_stopped")
	}()
	go func() {
		defer m.wg.Done()
		m.watchdog(cmd, flag, readerDone)
	}()
	return nil
}

// Wait blocks until the reader and watchdog goroutines have exited.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Running reports whether the reader is still consuming the log stream.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// readLoop consumes stdout until it closes. The first line is the predicate
// echo from `log stream` and is always skipped.
func (m *Monitor) readLoop(r io.Reader, onActive, onIdle func()) {
	br := bufio.NewReader(r)
	first := true
	errCount := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			errCount = 0
			if first {
				first = false
			} else {
				m.handleLine(line, onActive, onIdle)
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, fs.ErrClosed) {
			return
		}
		m.log.Errorw("camera_monitor_read_failed", "err", err)
		errCount++
		if errCount >= maxConsecutiveReadErrors {
			return
		}
	}
}

func (m *Monitor) handleLine(line string, onActive, onIdle func()) {
	switch {
	case strings.Contains(line, m.cfg.StartSentinel):
		m.log.Infow("camera_on")
		if onActive != nil {
			onActive()
		}
	case strings.Contains(line, m.cfg.StopSentinel):
		m.log.Infow("camera_off")
		if onIdle != nil {
			onIdle()
		}
	}
}

// watchdog polls flag and kills the subprocess once it is set. It also
// returns early if the subprocess already went away on its own.
func (m *Monitor) watchdog(cmd *exec.Cmd, flag *StopFlag, readerDone <-chan struct{}) {
	t := time.NewTicker(m.cfg.PollInterval)
	defer t.Stop()
	for !flag.ShouldStop() {
		select {
		case <-readerDone:
			return
		case <-t.C:
		}
	}

	m.log.Infow("camera_monitor_killing_process")
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		m.log.Errorw("camera_monitor_kill_failed", "err", err)
		return
	}
	m.log.Infow("camera_monitor_process_killed")
}
