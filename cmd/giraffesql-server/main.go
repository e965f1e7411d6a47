package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/config"
	"github.com/giraffedb/giraffesql/server/sqlwire"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	workdir := flag.String("workdir", "", "database environment directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("cannot load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *workdir != "" {
		cfg.Storage.Workdir = *workdir
	}

	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(cfg.Storage.Workdir, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create environment directory")
	}

	if err := sqlwire.Run(sqlwire.ServerConfig{
		Addr:    cfg.Server.Addr,
		Workdir: cfg.Storage.Workdir,
	}); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
