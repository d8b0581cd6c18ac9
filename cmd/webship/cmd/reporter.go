package cmd

import (
	"strings"

	"github.com/webship/webship/internal/providers/aws/stack"
)

// cliReporter prints the results of the core commands.
type cliReporter struct {
	out OutputInterface
}

func (r *cliReporter) Warning(message string) {
	r.out.Warningf("%s", message)
}

func (r *cliReporter) StackDeployed(result *stack.DeployResult) {
	name := r.out.Bold(result.StackName)
	switch {
	case result.NoChanges:
		r.out.Infof("Stack %s is up to date", name)
	case result.Status == "IN_PROGRESS":
		r.out.Infof("Stack %s %s started, not waiting for completion", name, strings.ToLower(result.OperationType))
	default:
		r.out.Successf("Stack %s %s finished with status %s",
			name, strings.ToLower(result.OperationType), r.out.StatusBadge(result.Status))
	}

	if len(result.Outputs) > 0 {
		r.outputsTable(result.Outputs)
	}
}

func (r *cliReporter) StackOutputs(stackName string, outputs []stack.Output) {
	r.out.KeyValue("Stack", stackName)
	if len(outputs) == 0 {
		r.out.Warningf("Stack %s has no outputs", stackName)
		return
	}
	r.outputsTable(outputs)
}

func (r *cliReporter) outputsTable(outputs []stack.Output) {
	rows := make([][]string, 0, len(outputs))
	for _, o := range outputs {
		rows = append(rows, []string{o.Key, o.Value, o.Description})
	}
	r.out.Blank()
	r.out.Table([]string{"Output", "Value", "Description"}, rows)
	r.out.Blank()
}
