// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"eisenhower/src/api"
	"eisenhower/src/logging"
	"eisenhower/src/store"
	"eisenhower/src/web"
)

// APIServer serves the matrix page and the task API from one engine.
type APIServer struct {
	engine *gin.Engine
}

func NewAPIServer(s store.Store) (*APIServer, error) {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	api.NewHandler(s).Register(engine)
	if err := web.Register(engine); err != nil {
		return nil, fmt.Errorf("loading web assets: %w", err)
	}
	return &APIServer{engine: engine}, nil
}

// Handler wraps the engine with OTel middleware.
func (s *APIServer) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "eisenhower-api-server")
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *APIServer) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info(gctx, "API server starting", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server startup failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info(context.Background(), "Shutdown signal received, closing server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logging.Info(context.Background(), "Server exited cleanly")
		return nil
	})
	return g.Wait()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (a *app) serveCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the matrix page and task API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gin.SetMode(gin.ReleaseMode)

			if a.cfg.OTelEnabled {
				otelShutdown, err := logging.SetupOTelSDK(ctx, a.cfg.OTLPEndpoint)
				if err != nil {
					return fmt.Errorf("failed to setup OTel SDK: %w", err)
				}
				defer func() {
					// Flush spans before exiting
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := otelShutdown(shutdownCtx); err != nil {
						fmt.Fprintf(os.Stderr, "OTel shutdown error: %v\n", err)
					}
				}()
			} else {
				logging.UseWriter(cmd.ErrOrStderr(), slog.LevelInfo)
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if seed {
				if err := seedIfEmpty(ctx, s); err != nil {
					return err
				}
			}

			srv, err := NewAPIServer(s)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", ":"+a.cfg.APIPort)
			if err != nil {
				return fmt.Errorf("listening on :%s: %w", a.cfg.APIPort, err)
			}
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVarP(&a.port, "port", "p", "", "listen port; overrides API_PORT")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the default seed when the store is empty")
	a.addStoreFlags(cmd)
	return cmd
}

func seedIfEmpty(ctx context.Context, s store.Store) error {
	tasks, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		return nil
	}
	_, err = store.Seed(ctx, s, store.DefaultSeed())
	return err
}
