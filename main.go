package main

import "github.com/imanbakhtiari/cdaas/cmd"

func main() {
	cmd.Execute()
}
