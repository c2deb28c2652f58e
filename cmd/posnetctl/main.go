// Command posnetctl converts between POSNET wire traffic and JSON documents.
package main

import "github.com/moffa90/go-posnet/internal/cli"

func main() {
	cli.Execute()
}
