package list

type ListCmd struct {
	Tests ListTestsCmd `cmd:"" help:"List registered tests"`
	Cases ListCasesCmd `cmd:"" help:"List registered test cases"`
}
