package main

import (
	"cstest/pkg/cstest"
	_ "cstest/suites/helloworld"
)

func main() {
	suite := cstest.CreateSuite("hello-world")
	suite.Run()
}
