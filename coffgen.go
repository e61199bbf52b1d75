package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/xyproto/env/v2"

	"coffgen/pkg/coff"
	"coffgen/pkg/utils"
)

var (
	output = kingpin.Flag("output", "Path of the object file to write.").
		Short('o').Default(env.Str("COFFGEN_OUTPUT", "test.o")).String()
	m32     = kingpin.Flag("m32", "Emit an i386 object instead of x86-64.").Bool()
	strict  = kingpin.Flag("strict", "Validate relocations and symbol indexes before emitting.").Bool()
	hexDump = kingpin.Flag("hex", "Hex-dump the emitted image to stdout.").Default("true").Bool()
	verbose = kingpin.Flag("verbose", "Log layout details.").Short('v').Bool()
)

func main() {
	kingpin.CommandLine.Help = "Emit a demonstration COFF object: a Windows x64 \"Hello, World!\" module that calls an external print function."
	kingpin.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if !*verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	gen := coff.NewGenerator(!*m32)
	buildHello(logger, gen)

	var obj []byte
	if *strict {
		var err error
		obj, err = gen.EmitStrict()
		if err != nil {
			level.Error(logger).Log("msg", "object does not validate", "err", err)
			os.Exit(1)
		}
	} else {
		obj = gen.Emit()
	}

	if err := os.WriteFile(*output, obj, 0o644); err != nil {
		level.Error(logger).Log("msg", "write failed", "path", *output, "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "wrote object", "path", *output,
		"machine", coff.MachineTypeStringer{MachineType: gen.Header.Machine},
		"size", humanize.Bytes(uint64(len(obj))))

	if *hexDump {
		fmt.Printf("=== [module 'test'] (%d bytes) ===\n", len(obj))
		printBytes(obj)
	}
}

// buildHello assembles the sample module: a .text section with the
// call-out to print, an .rdata section holding the greeting, and the
// symbols a linker needs to stitch them together.
func buildHello(logger log.Logger, gen *coff.Generator) {
	text := gen.AddSection(".text", coff.ScnCntCode|coff.ScnMemExecute|coff.ScnMemRead)

	text.Append([]byte{0x55})             // push rbp
	text.Append([]byte{0x48, 0x89, 0xe5}) // mov rbp, rsp

	// lea rcx, [rip + aHello]; the displacement starts 3 bytes in.
	lea := text.Append([]byte{0x48, 0x8d, 0x0d, 0x00, 0x00, 0x00, 0x00}) + 3
	// call print; the displacement starts 1 byte in.
	call := text.Append([]byte{0xe8, 0x00, 0x00, 0x00, 0x00}) + 1
	text.Append([]byte{0x5d}) // pop rbp
	text.Append([]byte{0xc3}) // ret

	rdata := gen.AddSection(".rdata", coff.ScnCntInitializedData|coff.ScnMemRead)
	greeting := rdata.Append([]byte("Hello, World!\n\x00"))

	gen.AddSymbol("main", 0, 1, coff.SymTypeFunction)
	gen.AddSymbol("aHello", greeting, 2, coff.SymTypeNull)
	gen.AddSymbol("print", 0, 0, coff.SymTypeFunction)

	relType := coff.RelAMD64Rel32
	if gen.Header.Machine == coff.MachineI386 {
		relType = coff.RelI386Rel32
	}
	text.AddRelocation(lea, 1, relType)
	text.AddRelocation(call, 2, relType)

	utils.Assert(len(gen.Sections) == 2)
	level.Debug(logger).Log("msg", "assembled sample module",
		"text", len(text.Data), "rdata", len(rdata.Data),
		"symbols", len(gen.Symbols), "relocations", len(text.Relocations))
}

// printBytes renders data 16 bytes per row with a leading offset column.
func printBytes(data []byte) {
	offsets := color.New(color.FgCyan)
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}

		row := make([]string, 0, 16)
		for _, b := range data[i:end] {
			row = append(row, fmt.Sprintf("%02x", b))
		}
		fmt.Printf("%s %s\n", offsets.Sprintf("%04x:", i), strings.Join(row, " "))
	}
}
