package suite

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"cstest/internal/cli"
	"cstest/internal/suite"
	"cstest/internal/testmgr"
)

var _ suite.SuiteContext = &CSTestSuite{}

type CSTestSuite struct {
	name        string
	ctx         *kong.Context
	Log         *logrus.Logger
	registry    *testmgr.Registry
	azureDevops bool
	context     context.Context
	stop        context.CancelFunc
}

// CreateSuite parses the command line and builds a suite over every test
// registered so far.
func CreateSuite(name string) CSTestSuite {
	name = fmt.Sprintf("cstest-%s", name)
	ctx, global := cli.ParseCommandLine(name)
	logger := logrus.New()
	logger.SetLevel(global.Verbosity)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors: true,
	})

	logger.Infof("Creating suite '%s'", name)

	return newSuite(name, ctx, logger, testmgr.GlobalRegistry(), global.AzureDevops)
}

func newSuite(name string, ctx *kong.Context, logger *logrus.Logger, registry *testmgr.Registry, azureDevops bool) CSTestSuite {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return CSTestSuite{
		name:        name,
		ctx:         ctx,
		Log:         logger,
		registry:    registry,
		azureDevops: azureDevops,
		context:     sigCtx,
		stop:        stop,
	}
}

// Run the suite, exits the process with the result
func (s *CSTestSuite) Run() {
	if s.ctx == nil {
		s.Log.Fatalf("Suite '%s' not initialized", s.name)
	}

	s.Log.Infof("Running suite '%s' - %d tests in %d test cases registered.", s.name, s.registry.Len(), len(s.registry.Cases()))
	s.ctx.BindTo(s, (*suite.SuiteContext)(nil))
	err := s.ctx.Run()
	s.stop()
	s.reportExitStatus(err)
}

// Returns the name of the suite
func (s *CSTestSuite) Name() string {
	return s.name
}

// Returns all registered tests in registration order
func (s *CSTestSuite) Tests() []testmgr.TestDescriptor {
	return s.registry.Tests()
}

// Returns the names of all registered test cases
func (s *CSTestSuite) Cases() []string {
	return s.registry.Cases()
}

func (s *CSTestSuite) AzureDevops() bool {
	return s.azureDevops
}

// Returns a context cancelled on SIGINT or SIGTERM
func (s *CSTestSuite) Context() context.Context {
	return s.context
}

func (s *CSTestSuite) Logger() *logrus.Logger {
	return s.Log
}
