package list

import (
	"fmt"
	"io"
	"os"

	"cstest/internal/suite"
)

type ListCasesCmd struct {
	out io.Writer `kong:"-"`
}

func (cmd *ListCasesCmd) Run(s suite.SuiteContext) error {
	log := s.Logger()
	log.Info("Listing all test cases")

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	for _, name := range s.Cases() {
		fmt.Fprintln(out, name)
	}

	return nil
}
