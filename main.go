package main

import "github.com/nattapongw/fieldservice/cmd"

func main() {
	cmd.Execute()
}
