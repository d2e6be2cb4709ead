package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/errilaz/grimo/cmd/util"
	"github.com/errilaz/grimo/internal/logger"
	"github.com/errilaz/grimo/internal/middleware"
	"github.com/errilaz/grimo/internal/transport"
)

const shutdownTimeout = 10 * time.Second

var (
	conn   util.ConnectionFlags
	listen string
	prefix string
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve query intents over HTTP",
	Long: `Expose the database through the grimo HTTP routes so remote clients can run
selects, inserts, updates, deletes and function calls:

  GET    <prefix>/select?query=<json>
  POST   <prefix>/insert
  PATCH  <prefix>/update
  DELETE <prefix>/delete
  POST   <prefix>/call`,
	RunE: runServe,
}

func init() {
	util.AddConnectionFlags(ServeCmd, &conn)
	ServeCmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "Address to listen on")
	ServeCmd.Flags().StringVar(&prefix, "prefix", "", "Path prefix for the routes")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proj, err := util.LoadProject(conn.File)
	if err != nil {
		return err
	}
	if err := conn.Resolve(cmd, proj); err != nil {
		return err
	}
	db, err := util.Connect(ctx, conn.Config())
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:              listen,
		Handler:           middleware.New(transport.NewDB(db), prefix),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := logger.Get()
	errc := make(chan error, 1)
	go func() {
		log.Info("Serving", "addr", listen, "prefix", prefix, "database", conn.DB)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
