// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// defineList collects repeated -D NAME=VALUE flags.
type defineList map[string]string

func (dl defineList) String() string {
	var defs []string
	for name, value := range dl {
		defs = append(defs, name+"="+value)
	}
	return strings.Join(defs, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return errors.New(f("define '%v' is not NAME=VALUE", text))
	}
	dl[name] = value
	return nil
}

func main() {
	var assemble bool
	var save bool
	var verbose bool
	var limit int
	defines := defineList{}

	flag.BoolVar(&assemble, "a", false, "Assemble the program from LS-8 mnemonics")
	flag.BoolVar(&save, "s", false, "Write the program image to stdout, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "l", 0, "Maximum instructions to execute, 0 for no limit")
	flag.Var(defines, "D", "Assembler define NAME=VALUE")

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), f("usage: %v [options] program", os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	log.SetFlags(0)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	var prog *cpu.Program
	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		for name, value := range defines {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		prog, err = cpu.ParseImage(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if save {
		_, err = prog.WriteTo(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	emu.Program = prog
	emu.Tape.Output = os.Stdout

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Run(limit)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}
