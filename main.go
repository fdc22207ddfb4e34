package main

import "github.com/pythseq/hgtree/cmd"

func main() {
	cmd.Execute()
}
