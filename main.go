package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livingtemple/client"
	"livingtemple/display"
)

// The Living Temple 客户端入口：加载配置，启动会话、输入采样与窗口
func main() {
	cfg, err := client.LoadConfig(os.Args[1:], ".env")
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.SchemaOut != "" {
		if err := client.WriteProtocolSchema(cfg.SchemaOut); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := client.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer client.SyncLogger()

	// 优雅退出（Ctrl+C）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := client.NewSession(ctx, client.SessionOptions{
		URL:  cfg.ServerURL,
		Form: client.JoinForm{RoomCode: cfg.Room, PlayerName: cfg.Name},
	})
	defer sess.Close()

	keys := &client.InputState{}
	sampler := client.NewSampler(sess, keys, cfg.InputInterval)
	go sampler.Run(ctx)

	if cfg.AdminAddr != "" {
		srv := &http.Server{Addr: cfg.AdminAddr, Handler: client.NewAdminRouter(sess, sampler)}
		go func() {
			client.Log.Infof("admin listening on %s", cfg.AdminAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				client.Log.Errorf("admin listen: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	game, err := display.NewGame(ctx, sess, keys)
	if err != nil {
		client.Log.Errorf("init window: %v", err)
		return
	}
	client.Log.Infof("client starting: server=%s room=%q", cfg.ServerURL, cfg.Room)
	if err := display.Run(game); err != nil {
		client.Log.Errorf("window: %v", err)
	}
	client.Log.Info("Shutting down...")
}
