package list

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cstest/internal/suite"
	"cstest/pkg/cstest/utils"
)

type ListTestsCmd struct {
	Cases []string `short:"c" name:"case" help:"Filter tests by test case"`
	Yaml  bool     `short:"y" help:"Output in YAML format"`

	out io.Writer `kong:"-"`
}

type listedTest struct {
	Case    string        `yaml:"case"`
	Name    string        `yaml:"name"`
	Timeout time.Duration `yaml:"timeout"`
}

func (cmd *ListTestsCmd) Run(s suite.SuiteContext) error {
	log := s.Logger()
	log.Info("Listing tests")

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	caseFilter := utils.NewStringFilterFromSlice(cmd.Cases)

	collected := make([]listedTest, 0)
	for _, test := range s.Tests() {
		log.Tracef("Checking test '%s'", test.ID())

		if !caseFilter.Match(test.CaseName()) {
			log.Tracef("Skipping test '%s' because it does not match any test case", test.ID())
			continue
		}

		collected = append(collected, listedTest{
			Case:    test.CaseName(),
			Name:    test.Name(),
			Timeout: test.Timeout(),
		})
	}

	if cmd.Yaml {
		data, err := yaml.Marshal(collected)
		if err != nil {
			return fmt.Errorf("failed to marshal tests to YAML: %w", err)
		}

		fmt.Fprint(out, string(data))
	} else {
		for _, test := range collected {
			fmt.Fprintf(out, "%s.%s (timeout %s)\n", test.Case, test.Name, test.Timeout)
		}
	}

	log.Infof("Selected %d tests", len(collected))
	return nil
}
