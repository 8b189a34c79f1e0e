package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	nbt "github.com/starfederation/nbt-go"
	"github.com/starfederation/nbt-go/framing"
)

type encodeCmd struct {
	Input    string `arg:"" help:"JSON or YAML input file, - for stdin." default:"-"`
	Output   string `short:"o" help:"NBT output file, - for stdout." default:"-"`
	Format   string `help:"Input format." enum:"auto,json,yaml" default:"auto"`
	Name     string `help:"Root tag name for JSON input." default:""`
	Order    string `help:"Byte order of the output." enum:"big,little" default:"big" env:"NBT_BYTE_ORDER"`
	Compress string `help:"Container around the output." enum:"none,gzip,zlib" default:"none" env:"NBT_COMPRESSION"`
	Header   uint32 `help:"Prefix a Bedrock level.dat header with this storage version; 0 writes none." default:"0"`
}

func (c *encodeCmd) Run(g *cli) error {
	data, err := readInput(c.Input)
	if err != nil {
		return err
	}
	root, err := parseDocument(data, c.Format, c.Input, c.Name)
	if err != nil {
		return err
	}
	order, err := nbt.ParseByteOrder(c.Order)
	if err != nil {
		return err
	}
	comp, err := framing.ParseCompression(c.Compress)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(c.Output)
	if err != nil {
		return err
	}
	counter := &countingWriter{w: out}
	zw, err := framing.NewWriter(counter, comp)
	if err != nil {
		closeOut()
		return err
	}
	if c.Header != 0 {
		size, err := nbt.TagSize(root)
		if err != nil {
			zw.Close()
			closeOut()
			return fmt.Errorf("encode %s: %w", root, err)
		}
		h := framing.Header{StorageVersion: c.Header, Length: uint32(size)}
		if _, err := zw.Write(framing.AppendHeader(nil, h)); err != nil {
			zw.Close()
			closeOut()
			return err
		}
	}
	enc := nbt.NewEncoder(zw, order)
	if err := enc.WriteTag(root); err != nil {
		enc.Close()
		closeOut()
		return fmt.Errorf("encode %s: %w", root, err)
	}
	if err := enc.Close(); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if g.Verbose {
		log.Printf("nbt: wrote %s as %d bytes (%s-endian, %s)", root, counter.n, order, comp)
	}
	return nil
}

func parseDocument(data []byte, format, path, name string) (nbt.Tag, error) {
	if format == "auto" {
		format = detectFormat(path, data)
	}
	switch format {
	case "json":
		return nbt.FromJSON(name, data)
	case "yaml":
		return nbt.FromYAML(data)
	default:
		return nbt.Tag{}, fmt.Errorf("unknown input format %q", format)
	}
}

func detectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
