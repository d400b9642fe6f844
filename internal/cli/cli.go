package cli

import (
	"os"

	"cstest/internal/cli/list"
	"cstest/internal/cli/run"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

type GlobalOpts struct {
	Verbosity   log.Level `short:"v" help:"Set log level" default:"info"`
	AzureDevops bool      `short:"a" help:"Enable Azure DevOps integration" env:"TF_BUILD"`
}

type cli struct {
	Global GlobalOpts   `embed:""`
	List   list.ListCmd `cmd:"" help:"List registered tests and test cases"`
	Run    run.RunCmd   `cmd:"" help:"Run the registered tests one after another"`
}

func ParseCommandLine(name string) (*kong.Context, GlobalOpts) {
	// Force display help if no arguments are provided
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "--help")
	}

	parser, cli, err := newParser(name)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	return ctx, cli.Global
}

func newParser(name string, options ...kong.Option) (*kong.Kong, *cli, error) {
	cli := &cli{}
	parser, err := kong.New(cli, append([]kong.Option{kong.Name(name)}, options...)...)
	if err != nil {
		return nil, nil, err
	}

	return parser, cli, nil
}
