package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpadapter "eud4xr-bridge/internal/adapters/input/http"
	"eud4xr-bridge/internal/adapters/input/mcp"
	"eud4xr-bridge/internal/adapters/input/ssdp"
	"eud4xr-bridge/internal/adapters/output/homeassistant"
	"eud4xr-bridge/internal/adapters/output/persistence"
	"eud4xr-bridge/internal/adapters/output/unity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/service"
	"eud4xr-bridge/internal/observe"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().BoolP("verbose", "v", false, "log at debug level")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*persistence.YAMLConfigRepository, *model.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	repo := persistence.NewYAMLConfigRepository(path)
	cfg, err := repo.Get(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return repo, cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	configRepo, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger, err := observe.NewLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	metrics, shutdownMetrics, err := observe.InitProvider()
	if err != nil {
		return fmt.Errorf("metrics provider: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := homeassistant.NewClient()
	if cfg.HassURL != "" && cfg.HassToken != "" {
		host.Configure(cfg.HassURL, cfg.HassToken)
	} else {
		logger.Warn("home assistant not configured, events and reloads are disabled")
	}
	sim := unity.NewClient(cfg.ServerUnityURL, cfg.ServerUnityToken, logger.Named("unity"))
	rules := persistence.NewYAMLAutomationRepository(cfg.AutomationsPath)

	svc := service.NewBridgeService(sim, host, rules,
		service.WithLogger(logger.Named("bridge")),
		service.WithMetrics(metrics),
		service.WithRetention(cfg.FailedUpdateRetention),
		service.WithHueFormulas(cfg.Hue.ToHueFormula, cfg.Hue.ToUnityFormula),
	)
	configSvc := service.NewConfigService(configRepo, host)

	if len(cfg.UnityEntities) > 0 {
		n, err := svc.AddVirtualObjects(ctx, cfg.UnityEntities)
		if err != nil {
			return fmt.Errorf("register unity entities: %w", err)
		}
		logger.Info("registered configured entities", zap.Int("count", n))
	}

	opts := []httpadapter.Option{
		httpadapter.WithLogger(logger.Named("http")),
		httpadapter.WithConfig(configSvc),
		httpadapter.WithMetrics(promhttp.Handler()),
	}

	ip, port := "", 0
	if cfg.Hue.Enabled {
		ip = cfg.Hue.LocalIP
		if ip == "" {
			ip = getLocalIP()
		}
		if ip == "" {
			return errors.New("could not determine local IP, set hue.local_ip or LOCAL_IP")
		}
		port, err = listenPort(cfg.Listen)
		if err != nil {
			return err
		}
		opts = append(opts, httpadapter.WithHue(svc, ip, port))
	}
	if cfg.MCP.Enabled {
		opts = append(opts, httpadapter.WithMCP(mcp.NewServer(svc, version).Handler()))
	}
	server := httpadapter.NewServer(svc, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(gctx, cfg.Listen) })
	if cfg.Hue.Enabled && cfg.Hue.Discovery {
		disc := ssdp.NewServer(ip, port, logger.Named("ssdp"))
		g.Go(func() error { return disc.Run(gctx) })
	}
	if cfg.WatchAutomations {
		watcher := persistence.NewRuleWatcher(rules, svc.NotifyAutomations, logger.Named("watcher"))
		g.Go(func() error { return watcher.Run(gctx) })
	}

	err = g.Wait()
	svc.Wait()
	if serr := shutdownMetrics(context.Background()); serr != nil {
		logger.Warn("metrics shutdown", zap.Error(serr))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bridge stopped", zap.Error(err))
		return err
	}
	logger.Info("bridge stopped")
	return nil
}

func listenPort(listen string) (int, error) {
	_, p, err := net.SplitHostPort(listen)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", listen, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("listen port %q: %w", p, err)
	}
	return port, nil
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
