package main

import "github.com/theirongolddev/loanscope/cmd"

func main() {
	cmd.Execute()
}
