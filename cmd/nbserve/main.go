package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lesismal/nbserve/logging"
	"github.com/lesismal/nbserve/server"
)

var (
	configPath = flag.String("c", "", "path of the TOML config file")
	engine     = flag.String("engine", "", "connection engine: nbio or std")
	addr       = flag.String("addr", "", "listen address host:port, overrides the config")
)

func main() {
	flag.Parse()

	conf := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			logging.Warn("%v, using defaults", err)
		}
		conf = loaded
	}
	if *engine != "" {
		conf.Engine = *engine
	}
	if *addr != "" {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			logging.Error("invalid -addr %q: %v", *addr, err)
			os.Exit(2)
		}
		conf.Address = host
		if conf.Port, err = strconv.Atoi(port); err != nil {
			logging.Error("invalid -addr port %q: %v", port, err)
			os.Exit(2)
		}
	}

	lvl, err := logging.ParseLevel(conf.LogLevel)
	if err != nil {
		logging.Warn("%v, using info", err)
		lvl = logging.LevelInfo
	}
	logging.SetLevel(lvl)
	logging.Install()

	svr, err := server.New(&conf, nil)
	if err != nil {
		logging.Error("nbserve: %v", err)
		os.Exit(1)
	}
	if err = svr.Start(); err != nil {
		logging.Error("nbserve.Start failed: %v", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	if err = svr.Shutdown(ctx); err != nil {
		logging.Warn("nbserve: shutdown: %v", err)
	}
	logging.Info("nbserve: exit")
}
