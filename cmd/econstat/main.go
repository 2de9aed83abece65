package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"econstat/internal/config"
	"econstat/internal/etl"
	"econstat/internal/server"
	"econstat/internal/store"
)

var (
	port    = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	csvDir  = flag.String("csvDir", "", "源 CSV 数据目录 (覆盖配置文件)")
	load    = flag.Bool("load", false, "执行 ETL 加载后退出，不启动服务")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Econstat - 经济数据分析服务")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *csvDir != "" {
		cfg.Data.CSVDir = *csvDir
	}

	if *load {
		runLoad(cfg)
		return
	}

	// 创建服务器
	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	fmt.Printf("API 地址: http://localhost:%d/api\n", cfg.Server.Port)
	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭数据库失败: %v", err)
	}
}

// runLoad 一次性 ETL 加载
func runLoad(cfg *config.AppConfig) {
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("创建数据目录失败: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "econstat.db"))
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer st.Close()

	csvDir := config.ResolveCSVDir(cfg)
	fmt.Printf("数据目录: %s\nCSV 目录: %s\n", dataDir, csvDir)

	report, err := etl.NewLoader(st, csvDir).Run()
	if err != nil {
		log.Fatalf("ETL 加载失败: %v", err)
	}

	fmt.Printf("\n加载完成 (任务 %s, 耗时 %s)\n", report.JobID, report.Duration)
	for _, stage := range report.Stages {
		fmt.Printf("  %-18s 源 %6d 行, 跳过 %4d 行, 写入 %6d 行\n",
			stage.Stage, stage.SourceRows, stage.SkippedRows, stage.UpsertedRows)
	}
	fmt.Printf("合计: 源 %d 行, 跳过 %d 行, 写入 %d 行\n",
		report.TotalRows, report.SkippedRows, report.UpsertedRows)
}
