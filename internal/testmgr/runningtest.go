package testmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/sirupsen/logrus"

	"cstest/internal/cserror"
	"cstest/pkg/cstest/core"
)

var _ core.Test = &RunningTest{}

type RunningTestConfig struct {
	Test TestDescriptor

	// 1-based position of the test in its run, only used to label logs.
	Index int

	Scheduler core.MainThreadScheduler
	NewTimer  core.TimerFactory

	// Clock used to measure run time. Defaults to the real clock.
	Clock clock.Clock

	// Suite logger, test logs are teed into it.
	Log *logrus.Logger

	// Outcome callbacks, always invoked on the main thread and at most once
	// in total between the two.
	OnPass func(rt *RunningTest)
	OnFail func(rt *RunningTest, message string)
}

// RunningTest is one in-flight execution of a TestDescriptor. It is armed when
// started and completed once the first of Pass, Fail or the timeout claims the
// outcome.
type RunningTest struct {
	desc      TestDescriptor
	index     int
	scheduler core.MainThreadScheduler
	timer     core.Timer
	clk       clock.Clock
	suiteLog  *logrus.Logger
	onPass    func(*RunningTest)
	onFail    func(*RunningTest, string)

	ctx    context.Context
	cancel context.CancelFunc

	log       *logrus.Logger
	logBuffer lockedBuffer

	mu        sync.Mutex
	reported  bool
	status    TestStatus
	message   string
	startTime time.Time
	endTime   time.Time
}

// Implementer of logrus.Hook interface to tee log messages from the test
// logger to the suite logger
type testLogTee struct {
	suiteLogger *logrus.Logger
	testId      string
}

func (tee testLogTee) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (tee testLogTee) Fire(entry *logrus.Entry) error {
	// Make a shallow copy so that we can modify the logger pointer
	newEntry := tee.suiteLogger.WithFields(entry.Data)
	newEntry.Caller = entry.Caller
	newEntry.Log(entry.Level, fmt.Sprintf("[%s] > %s", tee.testId, entry.Message))
	return nil
}

// lockedBuffer lets background goroutines log while the main thread reads
// the captured lines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// StartTest creates a RunningTest, arms its timer and synchronously invokes
// the test body with it. Must be called on the main thread.
func StartTest(cfg RunningTestConfig) *RunningTest {
	rt := newRunningTest(cfg)
	rt.start()
	return rt
}

func newRunningTest(cfg RunningTestConfig) *RunningTest {
	if cfg.Scheduler == nil || cfg.NewTimer == nil || cfg.Log == nil {
		panic("running test requires a scheduler, a timer factory and a logger")
	}

	if cfg.OnPass == nil || cfg.OnFail == nil {
		panic("running test requires outcome callbacks")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	ctx, cancel := context.WithCancel(context.Background())

	rt := &RunningTest{
		desc:      cfg.Test,
		index:     cfg.Index,
		scheduler: cfg.Scheduler,
		timer:     cfg.NewTimer(),
		clk:       clk,
		suiteLog:  cfg.Log,
		onPass:    cfg.OnPass,
		onFail:    cfg.OnFail,
		ctx:       ctx,
		cancel:    cancel,
		status:    TestStatusRunning,
		log:       logrus.New(),
	}

	rt.log.SetLevel(logrus.TraceLevel)
	rt.log.SetOutput(&rt.logBuffer)
	rt.log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: false,
	})
	rt.log.AddHook(testLogTee{
		suiteLogger: cfg.Log,
		testId:      rt.id(),
	})
	rt.log.SetReportCaller(true)

	return rt
}

func (rt *RunningTest) start() {
	rt.startTime = rt.clk.Now()
	rt.timer.OnExpiry(rt.desc.Timeout(), rt.expire)
	rt.timer.Start()

	rt.suiteLog.Debugf("[%s] started, timeout %s", rt.id(), rt.desc.Timeout())

	err := cserror.RunCatchPanic(func() error {
		rt.desc.Body()(rt)
		return nil
	})
	if err != nil {
		var pe cserror.PanicError
		if errors.As(err, &pe) {
			rt.log.Tracef("Stack trace:\n%s", pe.Stack)
		}
		rt.Fail(err.Error())
	}
}

func (rt *RunningTest) id() string {
	return fmt.Sprintf("%04d:%s", rt.index, rt.desc.ID())
}

// claim sets the one-shot guard. Only the caller that gets true may report
// the outcome.
func (rt *RunningTest) claim() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.reported {
		return false
	}

	rt.reported = true
	return true
}

func (rt *RunningTest) Pass() {
	if !rt.claim() {
		rt.suiteLog.Tracef("[%s] ignoring pass, outcome already reported", rt.id())
		return
	}

	rt.cancel()
	rt.scheduler.ScheduleOnMainThread(func() {
		rt.timer.Stop()
		rt.close(TestStatusPassed, "")
		rt.onPass(rt)
	})
}

func (rt *RunningTest) Fail(message string) {
	if !rt.claim() {
		rt.suiteLog.Tracef("[%s] ignoring failure '%s', outcome already reported", rt.id(), message)
		return
	}

	rt.cancel()
	rt.scheduler.ScheduleOnMainThread(func() {
		rt.timer.Stop()
		rt.close(TestStatusFailed, message)
		rt.onFail(rt, message)
	})
}

func (rt *RunningTest) Failf(format string, args ...any) {
	rt.Fail(fmt.Sprintf(format, args...))
}

func (rt *RunningTest) FailFromError(err error) {
	rt.Fail(err.Error())
}

func (rt *RunningTest) Assert(condition bool, message string) {
	if !condition {
		rt.Fail(message)
	}
}

// expire is the timer callback, it runs on the timer's goroutine.
func (rt *RunningTest) expire() {
	if !rt.claim() {
		return
	}

	rt.cancel()
	rt.scheduler.ScheduleOnMainThread(func() {
		rt.timer.Stop()
		rt.close(TestStatusTimedOut, TimeoutMessage)
		rt.onFail(rt, TimeoutMessage)
	})
}

// close records the final status. Runs on the main thread.
func (rt *RunningTest) close(status TestStatus, message string) {
	if status == TestStatusRunning {
		panic("cannot close test with status running")
	}

	rt.mu.Lock()
	rt.status = status
	rt.message = message
	rt.endTime = rt.clk.Now()
	rt.mu.Unlock()

	// Log the status to the test logger
	rt.log.SetReportCaller(false)
	localEntry := logrus.NewEntry(rt.log)
	if message != "" {
		localEntry = localEntry.WithField("reason", message)
	}
	localEntry.Log(status.logLevel(), status.String())

	// Close this logger, the hook still forwards late messages to the suite.
	rt.log.SetOutput(io.Discard)
}

func (rt *RunningTest) Name() string {
	return rt.desc.Name()
}

func (rt *RunningTest) CaseName() string {
	return rt.desc.CaseName()
}

func (rt *RunningTest) Descriptor() TestDescriptor {
	return rt.desc
}

func (rt *RunningTest) Logger() *logrus.Logger {
	return rt.log
}

func (rt *RunningTest) Context() context.Context {
	return rt.ctx
}

func (rt *RunningTest) MainThread() core.MainThreadScheduler {
	return rt.scheduler
}

func (rt *RunningTest) Status() TestStatus {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.status
}

// Message returns the failure message, empty while running or after a pass.
func (rt *RunningTest) Message() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.message
}

func (rt *RunningTest) RunTime() time.Duration {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status == TestStatusRunning {
		return rt.clk.Since(rt.startTime)
	}

	return rt.endTime.Sub(rt.startTime)
}

func (rt *RunningTest) LogLines() []string {
	raw := bytes.TrimRight(rt.logBuffer.Bytes(), "\n")
	if len(raw) == 0 {
		return nil
	}

	rawLines := bytes.Split(raw, []byte("\n"))
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		lines[i] = string(line)
	}

	return lines
}
