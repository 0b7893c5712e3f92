package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockScout/internal/config"
	"StockScout/internal/datasource"
	"StockScout/internal/indicator"
	"StockScout/internal/model"
	"StockScout/internal/recorder"
	"StockScout/internal/report"
	"StockScout/internal/scheduler"
	"StockScout/internal/screener"
	"StockScout/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ruleFlag := flag.String("rule", "", "执行一次筛选并退出，例如: -rule '股价大于10元且涨幅大于5%'")
	symbolFlag := flag.String("symbol", "", "分析单只股票的技术指标并退出，例如: -symbol 600519")
	flag.Parse()

	log.Println("[INFO] StockScout starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Build the provider chain: configured REST API first, then the
	// public Eastmoney endpoints, synthetic data as the last resort.
	var candidates []datasource.HistoryDataSource
	if cfg.DataSource.BaseURL != "" {
		candidates = append(candidates, datasource.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy))
	}
	candidates = append(candidates, datasource.NewEastmoneySource(cfg.Proxy))
	chain := datasource.NewChain(datasource.NewSyntheticSource(cfg.Universe.Symbols), candidates...)

	src, err := universe.NewManager(chain, cfg.Universe.CacheFile, cfg.Universe.Symbols)
	if err != nil {
		log.Fatalf("[FATAL] init universe cache: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot modes exit without touching the recorder or scheduler.
	if *symbolFlag != "" {
		if err := analyzeSymbol(ctx, src, *symbolFlag, cfg.Screener.HistoryDays); err != nil {
			log.Fatalf("[FATAL] analyze %s: %v", *symbolFlag, err)
		}
		return
	}

	scr := screener.New(src)
	opts := screener.Options{
		Workers:     cfg.Screener.Workers,
		HistoryDays: cfg.Screener.HistoryDays,
		SortBy:      model.Field(cfg.Screener.SortBy),
		Limit:       cfg.Screener.Limit,
		Strict:      cfg.Screener.Strict,
	}

	if *ruleFlag != "" {
		res, err := scr.ScreenRule(ctx, *ruleFlag, opts)
		if err != nil {
			log.Fatalf("[FATAL] screening: %v", err)
		}
		fmt.Print(report.FormatScreeningReport(res))
		if s := report.FormatSkipped(res); s != "" {
			fmt.Print(s)
		}
		return
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, scr, rec, cfg.Schedule.Rules, opts)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily screening now")
		go sched.RunNow()
	}

	log.Println("[INFO] StockScout is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockScout stopped")
}

// analyzeSymbol prints the latest indicator readings for one symbol.
func analyzeSymbol(ctx context.Context, src *universe.Manager, symbol string, historyDays int) error {
	if historyDays <= 0 {
		historyDays = screener.DefaultHistoryDays
	}
	end := time.Now()
	ts, err := src.GetHistory(ctx, symbol, end.AddDate(0, 0, -historyDays), end)
	if err != nil {
		return err
	}
	a, err := indicator.Analyze(ts)
	if err != nil {
		return err
	}
	fmt.Print(report.FormatAnalysis(a))
	return nil
}
