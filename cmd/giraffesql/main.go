package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/catalog"
	"github.com/giraffedb/giraffesql/internal/config"
	"github.com/giraffedb/giraffesql/internal/selfcheck"
	"github.com/giraffedb/giraffesql/internal/sql/executor"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config file] <env-dir>\n", filepath.Base(os.Args[0]))
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	envDir := flag.Arg(0)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.Log.Level)

	if err := os.MkdirAll(envDir, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create environment directory")
	}
	fmt.Printf("(%s: running with database environment at %s)\n", cfg.AppName, envDir)

	cat, err := catalog.NewCatalog(envDir)
	if err != nil {
		log.WithError(err).Fatal("cannot initialize schema catalog")
	}
	defer func() { _ = cat.Close() }()

	exec := executor.NewExecutor(cat)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "SQL> ",
		HistoryFile:     filepath.Join(envDir, ".giraffesql_history"),
		InterruptPrompt: "^C",
	})
	if err != nil {
		log.WithError(err).Fatal("cannot initialize readline")
	}
	defer func() { _ = rl.Close() }()

	repl(rl, exec, envDir)
}

func repl(rl *readline.Instance, exec *executor.Executor, envDir string) {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF or a closed terminal ends the session
			return
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "quit":
			return
		case "test":
			report("heap storage", selfcheck.HeapStorage(envDir))
			continue
		case "slotted":
			report("slotted page", selfcheck.Slotted())
			continue
		case "heapfile":
			report("heap file", selfcheck.HeapFile(envDir))
			continue
		}

		res, err := exec.ExecSQL(input)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Println(res.String())
	}
}

func report(name string, err error) {
	if err != nil {
		fmt.Printf("%s check failed: %v\n", name, err)
		return
	}
	fmt.Printf("%s check ok\n", name)
}

func setupLogging(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
