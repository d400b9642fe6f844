package main

import (
	"cstest/pkg/cstest"
	_ "cstest/suites/smoke"
)

func main() {
	suite := cstest.CreateSuite("smoke")
	suite.Run()
}
