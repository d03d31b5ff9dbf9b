package main

import "github.com/stephnangue/kubecred/cmd"

func main() {
	cmd.Execute()
}
