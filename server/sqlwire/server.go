package sqlwire

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/catalog"
	"github.com/giraffedb/giraffesql/internal/sql/executor"
)

type ServerConfig struct {
	Addr    string
	Workdir string
}

// Run serves the frame protocol until SIGINT/SIGTERM. The engine is
// single-threaded, so one catalog and executor are shared and
// statements from all connections are serialized.
func Run(sc ServerConfig) error {
	cat, err := catalog.NewCatalog(sc.Workdir)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = cat.Close() }()

	exec := executor.NewExecutor(cat)
	var mu sync.Mutex

	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer func() { _ = ln.Close() }()

	log.WithFields(log.Fields{"addr": sc.Addr, "workdir": sc.Workdir}).
		Info("giraffesql server listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			log.WithError(err).Warn("accept failed")
			continue
		}
		go handleConn(ctx, conn, exec, &mu)
	}
}

func handleConn(ctx context.Context, conn net.Conn, exec *executor.Executor, mu *sync.Mutex) {
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			// client closed or bad frame
			return
		}

		mu.Lock()
		res, err := exec.ExecSQL(req.SQL)
		mu.Unlock()

		if err != nil {
			_ = WriteFrame(conn, ExecuteResponse{ID: req.ID, Error: err.Error()})
			continue
		}
		_ = WriteFrame(conn, ExecuteResponse{ID: req.ID, Result: res})
	}
}
