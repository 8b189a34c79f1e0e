package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	nbt "github.com/starfederation/nbt-go"
	"github.com/starfederation/nbt-go/framing"
)

type dumpCmd struct {
	Input  string `arg:"" help:"NBT input file, - for stdin. gzip and zlib containers are detected." default:"-"`
	Format string `help:"Output format." enum:"yaml,json" default:"yaml"`
	Order  string `help:"Byte order of the input." enum:"big,little" default:"big" env:"NBT_BYTE_ORDER"`
	Header bool   `help:"Input starts with a Bedrock level.dat header."`
}

func (c *dumpCmd) Run(g *cli) error {
	var in io.Reader = os.Stdin
	if c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	order, err := nbt.ParseByteOrder(c.Order)
	if err != nil {
		return err
	}
	r, comp, err := framing.NewReader(in)
	if err != nil {
		return err
	}
	defer r.Close()

	var src io.Reader = r
	if c.Header {
		h, payload, err := framing.ReadHeader(r)
		if err != nil {
			return err
		}
		if g.Verbose {
			log.Printf("nbt: level.dat storage version %d, %d payload bytes", h.StorageVersion, h.Length)
		}
		src = payload
	}
	dec := nbt.NewDecoder(src, order)
	records := 0
	for {
		t, err := dec.ReadTag()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", records, err)
		}
		if err := c.print(t, records); err != nil {
			return err
		}
		records++
	}
	if g.Verbose {
		log.Printf("nbt: read %d record(s) (%s-endian, %s)", records, order, comp)
	}
	return nil
}

func (c *dumpCmd) print(t nbt.Tag, index int) error {
	switch c.Format {
	case "json":
		s, err := nbt.ToJSON(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, s)
		return err
	default:
		out, err := nbt.ToYAML(t)
		if err != nil {
			return err
		}
		if index > 0 {
			if _, err := io.WriteString(stdout, "---\n"); err != nil {
				return err
			}
		}
		_, err = stdout.Write(out)
		return err
	}
}
