/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tochemey/gosky/config"
	"github.com/tochemey/gosky/internal/daemon"
	"github.com/tochemey/gosky/node"
	"github.com/tochemey/gosky/services/bootstrap"
	"github.com/tochemey/gosky/services/echo"
	"github.com/tochemey/gosky/services/gate"
)

const shutdownTimeout = 30 * time.Second

var configFile string

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a node and run it until it is interrupted or no service is left",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return start(cmd.Context(), configFile)
	},
}

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "", "path of the YAML configuration file")
	rootCmd.AddCommand(startCmd)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New()
	}
	return config.Load(path)
}

func newNode(cfg *config.Config) (*node.Node, error) {
	return node.New(cfg,
		node.WithModule(bootstrap.Module, bootstrap.New),
		node.WithModule(echo.Module, echo.New),
		node.WithModule(gate.Module, gate.New))
}

func start(ctx context.Context, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	if pidPath := cfg.Daemon(); pidPath != "" {
		pidFile, err := daemon.Acquire(pidPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = pidFile.Release()
		}()
	}

	n, err := newNode(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}

	select {
	case <-ctx.Done():
		n.Logger().Info("received termination signal")
	case <-n.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return n.Stop(stopCtx)
}
