package devops

import (
	"fmt"
)

func (p *Printer) LogError(msg string, a ...any) {
	fmt.Fprintf(p.out, "##vso[task.logissue type=error]%s\n", fmt.Sprintf(msg, a...))
}

func (p *Printer) LogWarning(msg string, a ...any) {
	fmt.Fprintf(p.out, "##vso[task.logissue type=warning]%s\n", fmt.Sprintf(msg, a...))
}

// Marks the build step as failed or succeeded.
func (p *Printer) SetResult(ok bool, msg string) {
	result := "Succeeded"
	if !ok {
		result = "Failed"
	}
	fmt.Fprintf(p.out, "##vso[task.complete result=%s;]%s\n", result, msg)
}
