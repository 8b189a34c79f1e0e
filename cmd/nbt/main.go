package main

import (
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
)

// stdout is where converted documents and dumps are written.
var stdout io.Writer = os.Stdout

type cli struct {
	Verbose bool `short:"v" help:"Log a summary of each conversion." env:"NBT_VERBOSE"`

	Encode encodeCmd `cmd:"" help:"Convert a JSON or typed YAML document into an NBT file."`
	Dump   dumpCmd   `cmd:"" help:"Print the records of an NBT file as typed YAML or JSON."`
}

func main() {
	log.SetFlags(0)

	var args cli
	ctx := kong.Parse(&args,
		kong.Name("nbt"),
		kong.Description("Encode and inspect Named Binary Tag files."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&args); err != nil {
		log.Fatal(err)
	}
}
