package report

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree renders a compact console summary: the total at the root, one branch
// per task and one leaf per requirement.
func Tree(r Report) string {
	res := r.Result
	root := treeprint.NewWithRoot(fmt.Sprintf("%s: %d/%d (%s)", r.Student, res.Earned, res.Total, res.Status))
	for _, t := range res.Tasks {
		br := root.AddBranch(fmt.Sprintf("%s [%d/%d]", t.DisplayName, t.SatisfiedCount(), len(t.Requirements)))
		for _, req := range t.Requirements {
			mark := "ok  "
			if !req.Satisfied {
				mark = "FAIL"
			}
			br.AddNode(mark + " " + req.Label)
		}
	}
	return root.String()
}
