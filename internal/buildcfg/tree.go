package buildcfg

import (
	"fmt"

	"github.com/m1gwings/treedrawer/tree"
)

// Tree renders the configuration of workspace as a drawable tree, used to
// explain a build plan on the console.
func (c *Configuration) Tree(workspace string) *tree.Tree {
	root := tree.NewTree(tree.NodeString("workspace " + workspace))

	root.AddChild(tree.NodeString("backend: " + c.Backend.String()))
	root.AddChild(tree.NodeString("optimization: " + c.Optimization.String()))
	root.AddChild(tree.NodeString(fmt.Sprintf("bounds_checking: %t", c.BoundsChecking)))

	output := root.AddChild(tree.NodeString("output: " + c.OutputType.String()))
	if file := c.OutputFile(); file != "" {
		output.AddChild(tree.NodeString(file))
	}

	imports := root.AddChild(tree.NodeString(fmt.Sprintf("import_paths (%d)", len(c.ImportPaths))))
	for _, p := range c.ImportPaths {
		imports.AddChild(tree.NodeString(p))
	}

	return root
}
