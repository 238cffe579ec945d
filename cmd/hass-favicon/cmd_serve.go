package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Snuffy2/hass-favicon/internal/branding"
	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/entry"
	"github.com/Snuffy2/hass-favicon/internal/frontend"
	"github.com/Snuffy2/hass-favicon/internal/server"
)

func getPrimaryIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return ""
}

var serveConfigPath string

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", config.DefaultConfigPath, "path to config file")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hass-favicon service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("hass-favicon starting...\n")
		fmt.Printf("  listen:  %s:%d\n", cfg.Service.BindAddress, cfg.Service.Port)
		fmt.Printf("  www:     %s\n", cfg.Paths.WWWDir)
		fmt.Printf("  auth:    %s\n", cfg.Auth.Mode)

		os.MkdirAll(cfg.Paths.DataDir, 0750)
		store, err := entry.NewStore(filepath.Join(cfg.Paths.DataDir, "favicon.db"))
		if err != nil {
			return fmt.Errorf("opening entry store: %w", err)
		}
		defer store.Close()
		fmt.Printf("  entries: ready (db: %s/favicon.db)\n", cfg.Paths.DataDir)

		fe := frontend.New()
		hook := branding.NewHook(fe, cfg.Paths.WWWDir)

		// Re-apply whatever branding was active before the restart; fall
		// back to the config file's static overrides.
		active := branding.Config{
			Title:       cfg.Branding.Title,
			AccentColor: cfg.Branding.LaunchIconColor,
			IconFolder:  cfg.Branding.IconPath,
		}
		if e, err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load persisted branding: %v\n", err)
		} else if e != nil {
			active = branding.Config{
				Title:       e.Title,
				AccentColor: e.LaunchIconColor,
				IconFolder:  e.IconPath,
			}
		}
		if active != (branding.Config{}) {
			if err := hook.Apply(active); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not apply branding: %v\n", err)
			} else {
				fmt.Printf("  brand:   title=%q icons=%q color=%q\n", active.Title, active.IconFolder, active.AccentColor)
			}
		} else {
			fmt.Printf("  brand:   stock (no overrides configured)\n")
		}

		srv := server.New(cfg, fe, hook, store)

		// Graceful shutdown
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			addr := srv.Addr()
			if strings.HasPrefix(addr, "0.0.0.0:") {
				if ip := getPrimaryIP(); ip != "" {
					fmt.Printf("\nListening on http://%s (http://%s)\n", addr, ip+addr[len("0.0.0.0"):])
				} else {
					fmt.Printf("\nListening on http://%s\n", addr)
				}
			} else {
				fmt.Printf("\nListening on http://%s\n", addr)
			}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "server error: %v\n", err)
				os.Exit(1)
			}
		}()

		<-sig
		fmt.Println("\nShutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
